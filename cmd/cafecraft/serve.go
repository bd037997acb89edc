package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/spf13/cobra"

	"github.com/jhoicas/cafecraft/docs"
	"github.com/jhoicas/cafecraft/internal/bootstrap"
	httpRouter "github.com/jhoicas/cafecraft/internal/interfaces/http"
)

func newServeCmd(e *env) *cobra.Command {
	var noDocs bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia la API HTTP",
		Long:  "Inicia la API HTTP del punto de venta. Requiere que 'cafecraft setup' haya creado la base.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := e.load()
			if err != nil {
				return err
			}
			log.Info().Str("env", cfg.App.Env).Str("app", cfg.App.Name).Str("db", cfg.DB.Driver).Msg("iniciando aplicación")

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				log.Error().Err(err).Msg("base de datos")
				return err
			}
			defer db.Close()

			svc, err := bootstrap.New(cfg, db, log)
			if err != nil {
				return err
			}
			if err := svc.LoadModel(ctx); err != nil {
				log.Warn().Err(err).Msg("recomendaciones deshabilitadas hasta reentrenar")
			}

			app := httpRouter.NewApp(httpRouter.AppConfig{
				Name:         cfg.App.Name,
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}, log)

			if !noDocs {
				specPath, err := writeSwaggerSpec()
				if err != nil {
					log.Warn().Err(err).Msg("swagger deshabilitado")
				} else {
					defer os.RemoveAll(filepath.Dir(specPath))
					// Swagger UI: http://<host>:<port>/docs
					app.Use(swagger.New(swagger.Config{
						BasePath: "/",
						FilePath: specPath,
						Path:     "docs",
						Title:    cfg.App.Name + " API",
					}))
				}
			}
			httpRouter.Router(app, svc.RouterDeps())

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
				errCh <- app.Listen(cfg.HTTP.Addr())
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				if err != nil {
					log.Error().Err(err).Msg("servidor HTTP finalizado")
					return err
				}
				return nil
			case <-quit:
			}

			log.Info().Msg("señal de apagado recibida, cerrando servidor...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("apagado del servidor")
			}
			log.Info().Msg("aplicación detenida")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDocs, "no-docs", false, "no montar Swagger UI en /docs")
	return cmd
}

// writeSwaggerSpec escribe el swagger.json embebido en un archivo temporal para el middleware.
func writeSwaggerSpec() (string, error) {
	dir, err := os.MkdirTemp("", "cafecraft-docs-")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "swagger.json")
	if err := os.WriteFile(path, []byte(docs.SwaggerInfo.ReadDoc()), 0o644); err != nil {
		return "", fmt.Errorf("swagger: %w", err)
	}
	return path, nil
}
