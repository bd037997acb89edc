// Command cafecraft arranca la API del punto de venta y las tareas de administración
// (setup, check, train, backup, restore, user).
//
// @title                       CaféCraft API
// @version                     1.0
// @description                 Punto de venta, inventario, reportes y recomendaciones para una cafetería.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/pkg/config"
	"github.com/jhoicas/cafecraft/pkg/i18n"
	"github.com/jhoicas/cafecraft/pkg/logger"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// env estado compartido por los subcomandos: viper con los flags enlazados.
type env struct {
	v          *viper.Viper
	configFile string
	out        io.Writer
}

// globalFlags flag -> clave de configuración.
var globalFlags = []struct {
	name, key, usage string
}{
	{"db-driver", "DB_DRIVER", "driver de base de datos (sqlite, postgres, mysql)"},
	{"db-path", "DB_PATH", "archivo SQLite (por defecto cafecraft.db)"},
	{"db-dsn", "DB_DSN", "DSN para postgres/mysql"},
	{"env", "APP_ENV", "entorno (development, production, test)"},
	{"log-level", "LOG_LEVEL", "nivel de log (trace, debug, info, warn, error)"},
	{"locale", "APP_LOCALE", "idioma de recibos y mensajes (en, es)"},
}

func newRootCmd() *cobra.Command {
	e := &env{v: viper.New(), out: os.Stdout}
	cmd := &cobra.Command{
		Use:           "cafecraft",
		Short:         "Punto de venta CaféCraft",
		Long:          "CaféCraft: punto de venta, inventario por recetas, reportes y recomendaciones para una cafetería.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&e.configFile, "config", "", "archivo de configuración (.env, .yaml, .json)")
	bindFlags(e.v, pf)
	cmd.PersistentPreRun = func(c *cobra.Command, _ []string) {
		e.out = c.OutOrStdout()
	}

	cmd.AddCommand(
		newServeCmd(e),
		newSetupCmd(e),
		newCheckCmd(e),
		newTrainCmd(e),
		newBackupCmd(e),
		newRestoreCmd(e),
		newUserCmd(e),
	)
	return cmd
}

// bindFlags registra los flags globales y los enlaza a sus claves de configuración.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for _, f := range globalFlags {
		fs.String(f.name, "", f.usage)
		_ = v.BindPFlag(f.key, fs.Lookup(f.name))
	}
}

func (e *env) load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadFrom(e.v, e.configFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}

func (e *env) translator(cfg *config.Config) *i18n.Translator {
	return i18n.New(cfg.App.Locale)
}

// openDB abre la base y verifica que setup ya creó el esquema.
func openDB(ctx context.Context, cfg *config.Config) (*store.DB, error) {
	db, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	missing, err := store.MissingTables(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if len(missing) > 0 {
		_ = db.Close()
		return nil, fmt.Errorf("faltan tablas %v: ejecute 'cafecraft setup'", missing)
	}
	return db, nil
}
