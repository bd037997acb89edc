package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig escribe un .env que deja base, recibos, modelo y respaldos dentro de dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	lines := []string{
		"APP_ENV=test",
		"APP_LOCALE=en",
		"LOG_LEVEL=error",
		"DB_DRIVER=sqlite",
		"DB_PATH=" + filepath.Join(dir, "data", "cafecraft.db"),
		"RECEIPTS_DIR=" + filepath.Join(dir, "receipts"),
		"ML_MODEL_PATH=" + filepath.Join(dir, "models", "recommender.json"),
		"BACKUP_DIR=" + filepath.Join(dir, "backups"),
		"SETUP_RETRIES=1",
	}
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func findSubcommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootCmd_Subcomandos(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "setup", "check", "train", "backup", "restore", "user"} {
		c := findSubcommand(root, name)
		require.NotNil(t, c, name)
		assert.NotEmpty(t, c.Short, name)
	}
	for _, f := range []string{"config", "db-driver", "db-path", "db-dsn", "env"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(f), f)
	}
}

func TestSetupCmd_Flags(t *testing.T) {
	setupCmd := findSubcommand(newRootCmd(), "setup")
	require.NotNil(t, setupCmd)
	for _, f := range []string{"retries", "no-db", "verbose", "reset", "ask-password"} {
		assert.NotNil(t, setupCmd.Flags().Lookup(f), f)
	}
}

func TestSetupYCheck_InstalacionNueva(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := run(t, cfg, "setup", "--verbose")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Setup completed")
	assert.Contains(t, out, "schema")
	assert.FileExists(t, filepath.Join(dir, "data", "cafecraft.db"))
	assert.DirExists(t, filepath.Join(dir, "receipts"))

	out, err = run(t, cfg, "check")
	require.NoError(t, err, out)
	assert.Contains(t, out, "dry-run checkout")
	assert.Contains(t, out, "6 of 6 checks passed")
}

func TestCheckCmd_SinSetupFalla(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	cfg := writeConfig(t, dir)

	out, err := run(t, cfg, "check")
	require.Error(t, err)
	assert.Contains(t, out, "FAIL")
}

func TestSetupCmd_SinDB(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := run(t, cfg, "setup", "--no-db")
	require.NoError(t, err, out)
	assert.NoFileExists(t, filepath.Join(dir, "data", "cafecraft.db"))
	assert.DirExists(t, filepath.Join(dir, "backups"))
}

func TestUserPasswd_CambiaContrasena(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	_, err := run(t, cfg, "setup")
	require.NoError(t, err)

	_, err = run(t, cfg, "user", "passwd", "employee1", "--password", "corta")
	require.Error(t, err)

	_, err = run(t, cfg, "user", "passwd", "nadie", "--password", "Otra#Clave2026")
	require.Error(t, err)

	out, err := run(t, cfg, "user", "passwd", "employee1", "--password", "Otra#Clave2026")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Password updated for employee1")

	// check valida las contraseñas configuradas: employee1 ya no coincide.
	out, err = run(t, cfg, "check")
	require.Error(t, err)
	assert.Contains(t, out, "5 of 6 checks passed")
}

func TestBackupYRestoreCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	_, err := run(t, cfg, "setup")
	require.NoError(t, err)

	file := filepath.Join(dir, "manual.json.zst")
	out, err := run(t, cfg, "backup", file)
	require.NoError(t, err, out)
	assert.FileExists(t, file)
	assert.Contains(t, out, fmt.Sprintf("Backup written to %s", file))

	out, err = run(t, cfg, "restore", file)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Restore completed")

	out, err = run(t, cfg, "check")
	require.NoError(t, err, out)
}

func TestRestoreCmd_RequiereArchivo(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	_, err := run(t, cfg, "restore")
	assert.Error(t, err)
}

func TestTrainCmd_SinPedidos(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	_, err := run(t, cfg, "setup")
	require.NoError(t, err)

	out, err := run(t, cfg, "train")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Model trained on 0 orders")
	assert.FileExists(t, filepath.Join(dir, "models", "recommender.json"))
}
