package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/usecase"
	"github.com/jhoicas/cafecraft/internal/bootstrap"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/internal/setup"
)

func newTrainCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Entrena el recomendador con los pedidos completados",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := e.load()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			svc, err := bootstrap.New(cfg, db, log)
			if err != nil {
				return err
			}
			res, err := svc.ML.Train(cmd.Context())
			if err != nil {
				return err
			}
			printResult(e.out, true, e.translator(cfg).T("train.done", map[string]any{
				"Baskets":  res.Baskets,
				"Itemsets": res.FrequentItemsets,
				"Rules":    res.Rules,
			}))
			return nil
		},
	}
}

func newBackupCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [archivo]",
		Short: "Respalda todas las tablas en un archivo .json.zst",
		Long:  "Sin archivo se escribe BACKUP_DIR/cafecraft-backup-YYYY-MM-DD.json.zst.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := e.load()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			path := filepath.Join(cfg.Backup.Dir, setup.BackupFileName(time.Now()))
			if len(args) == 1 {
				path = args[0]
			}
			res, err := setup.Backup(cmd.Context(), db, cfg.Backup.Dir, path)
			if err != nil {
				return err
			}
			log.Info().Str("file", res.Path).Int("rows", res.Rows).Msg("respaldo escrito")
			printResult(e.out, true, e.translator(cfg).T("backup.done", map[string]any{"File": res.Path}))
			return nil
		},
	}
}

func newRestoreCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <archivo>",
		Short: "Reemplaza el contenido de la base con un respaldo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := e.load()
			if err != nil {
				return err
			}
			db, err := store.Open(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := setup.Restore(cmd.Context(), db.DB, args[0])
			if err != nil {
				return err
			}
			log.Info().Str("file", args[0]).Int("rows", rows).Msg("respaldo restaurado")
			printResult(e.out, true, e.translator(cfg).T("restore.done", map[string]any{"File": args[0]}))
			return nil
		},
	}
}

func newUserCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administración de usuarios desde la terminal",
	}
	var password string
	passwd := &cobra.Command{
		Use:   "passwd <usuario>",
		Short: "Cambia la contraseña de un usuario",
		Long:  "Cambia la contraseña sin pedir la anterior. Sin --password la pide por la terminal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := e.load()
			if err != nil {
				return err
			}
			tr := e.translator(cfg)
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			svc, err := bootstrap.New(cfg, db, log)
			if err != nil {
				return err
			}

			username := args[0]
			user, err := svc.Repos.Users.GetByUsername(cmd.Context(), username)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
			}
			if password == "" {
				password, err = readPassword(tr.T("user.password_prompt", map[string]any{"Username": username}))
				if err != nil {
					return err
				}
			}
			// La terminal actúa con privilegios de owner.
			actor := usecase.Actor{Role: entity.RoleOwner}
			if err := svc.Users.ChangePassword(cmd.Context(), actor, user.ID, dto.ChangePasswordRequest{NewPassword: password}); err != nil {
				return err
			}
			printResult(e.out, true, tr.T("user.password_updated", map[string]any{"Username": username}))
			return nil
		},
	}
	passwd.Flags().StringVar(&password, "password", "", "nueva contraseña (evitar en historiales de shell)")
	cmd.AddCommand(passwd)
	return cmd
}
