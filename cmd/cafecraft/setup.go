package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jhoicas/cafecraft/internal/domain/security"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/internal/setup"
	"github.com/jhoicas/cafecraft/pkg/logger"
)

func newSetupCmd(e *env) *cobra.Command {
	var (
		retries     int
		noDB        bool
		verbose     bool
		reset       bool
		askPassword bool
	)
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Inicializa o repara la instalación",
		Long: `Crea los directorios de datos, la base y el esquema, los usuarios por defecto y el menú de ejemplo.
Es idempotente: sobre una instalación sana no cambia nada. Si la base está corrupta la mueve a un
archivo .bak y la recrea. Con --reset respalda la base actual y empieza de cero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := e.load()
			if err != nil {
				return err
			}
			if verbose {
				log = logger.New(logger.Config{Env: cfg.App.Env, Level: "debug"})
			}
			tr := e.translator(cfg)
			if askPassword {
				pw, err := readPassword(tr.T("user.password_prompt", map[string]any{"Username": setup.OwnerUsername}))
				if err != nil {
					return err
				}
				if err := security.ValidatePassword(pw); err != nil {
					return err
				}
				cfg.Setup.OwnerPassword = pw
			}
			if !cmd.Flags().Changed("retries") {
				retries = cfg.Setup.Retries
			}

			rep, runErr := setup.NewInitializer(cfg, log).Run(cmd.Context(), setup.Options{
				Retries: retries,
				NoDB:    noDB,
				Reset:   reset,
			})

			printTitle(e.out, tr.T("setup.title"))
			if rep != nil {
				if verbose || runErr != nil {
					rows := make([]row, 0, len(rep.Steps))
					for _, s := range rep.Steps {
						rows = append(rows, row{name: s.Name, ok: true, status: s.Status, detail: s.Detail})
					}
					printRows(e.out, rows)
				}
				if rep.BackupPath != "" {
					fmt.Fprintln(e.out, tr.T("setup.moved_aside", map[string]any{"File": rep.BackupPath}))
				}
				if verbose {
					fmt.Fprintln(e.out, tr.T("setup.attempts", map[string]any{"Attempts": rep.Attempts}))
				}
			}
			if runErr != nil {
				printResult(e.out, false, tr.T("setup.failed")+": "+runErr.Error())
				return runErr
			}
			printResult(e.out, true, tr.T("setup.ok"))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&retries, "retries", 3, "intentos totales antes de fallar")
	f.BoolVar(&noDB, "no-db", false, "solo directorios y assets, sin tocar la base")
	f.BoolVarP(&verbose, "verbose", "v", false, "mostrar cada paso")
	f.BoolVar(&reset, "reset", false, "respaldar la base actual y recrearla desde cero")
	f.BoolVar(&askPassword, "ask-password", false, "pedir la contraseña del owner en lugar de usar SETUP_OWNER_PASSWORD")
	return cmd
}

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verifica la instalación de punta a punta",
		Long: `Comprueba tablas, usuarios por defecto, recetas del menú y un checkout de prueba
que se revierte sin dejar rastro. Termina con código 1 si alguna verificación falla.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := e.load()
			if err != nil {
				return err
			}
			tr := e.translator(cfg)
			db, err := store.Open(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := setup.NewChecker(db, cfg, cfg.App.Location()).Run(cmd.Context())
			if err != nil {
				return err
			}
			printTitle(e.out, tr.T("check.title"))
			rows := make([]row, 0, len(results))
			passed := 0
			for _, r := range results {
				status := tr.T("check.pass")
				if r.Passed {
					passed++
				} else {
					status = tr.T("check.fail")
				}
				rows = append(rows, row{name: r.Name, ok: r.Passed, status: status, detail: r.Detail})
			}
			printRows(e.out, rows)
			ok := setup.Passed(results)
			printResult(e.out, ok, tr.T("check.summary", map[string]any{"Passed": passed, "Total": len(results)}))
			if !ok {
				return errChecksFailed
			}
			return nil
		},
	}
}

var errChecksFailed = errors.New("check: hay verificaciones fallidas")

// readPassword lee una contraseña sin eco si stdin es una terminal; si no, lee una línea.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("leer contraseña: %w", err)
		}
		return string(b), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("leer contraseña: %w", err)
	}
	return line, nil
}
