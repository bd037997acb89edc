package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

// Drivers de base de datos soportados.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env, archivo y flags).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Setup    SetupConfig
	ML       MLConfig
	Receipts ReceiptsConfig
	Backup   BackupConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env            string // development, staging, production
	Name           string
	LogLevel       string
	Locale         string // en, es
	Currency       string // código ISO 4217
	CurrencySymbol string
	Timezone       string
}

// Location devuelve la zona horaria usada para agrupar reportes. Si no es válida usa time.Local.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DBConfig configuración de la base de datos.
// Con driver sqlite se usa Path (por defecto cafecraft.db); con postgres/mysql se usa DSN
// o, para postgres, el DSN construido con Host/Port/User/Password/DBName.
type DBConfig struct {
	Driver        string
	Path          string
	DSN           string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxOpenConns  int
	BusyTimeoutMS int
}

// ConnectionString devuelve el DSN según el driver configurado.
func (c DBConfig) ConnectionString() string {
	switch c.Driver {
	case DriverPostgres:
		if c.DSN != "" {
			return c.DSN
		}
		userInfo := url.UserPassword(c.User, c.Password)
		u := &url.URL{
			Scheme:   "postgres",
			User:     userInfo,
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path:     "/" + c.DBName,
			RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
		}
		return u.String()
	case DriverMySQL:
		return c.DSN
	default:
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
			filepath.ToSlash(c.Path), c.BusyTimeoutMS)
	}
}

// IsSQLite indica si la base es el archivo local embebido.
func (c DBConfig) IsSQLite() bool {
	return c.Driver == "" || c.Driver == DriverSQLite
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetupConfig parámetros del comando setup (usuarios por defecto y reintentos).
type SetupConfig struct {
	OwnerPassword    string
	EmployeePassword string
	Retries          int
	SampleMenu       bool
}

// MLConfig parámetros del recomendador.
type MLConfig struct {
	ModelPath     string
	MinSupport    float64
	MinConfidence float64
	TopK          int
}

// ReceiptsConfig datos impresos en los recibos.
type ReceiptsConfig struct {
	Dir       string
	ShopName  string
	Address   string
	Footer    string
	VerifyKey string
}

// BackupConfig directorio de respaldos.
type BackupConfig struct {
	Dir string
}

// Load lee la configuración usando una instancia nueva de Viper.
func Load() (*Config, error) {
	return LoadFrom(viper.New(), "")
}

// LoadFrom lee la configuración sobre una instancia de Viper ya preparada (p. ej. con flags
// de cobra enlazados). Prioridad: flags > env CAFECRAFT_* > archivo > valores por defecto.
// Si configFile no está vacío se lee ese archivo en lugar de buscar .env/config.env.
func LoadFrom(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: leer %s: %w", configFile, err)
		}
	} else {
		// Opcional: archivo de configuración (.env o config.env)
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // ignoramos error si no existe

		v.SetConfigName("config")
		v.AddConfigPath("./config")
		_ = v.MergeInConfig()
	}

	v.SetEnvPrefix("CAFECRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:            getString(v, "APP_ENV", "development"),
			Name:           getString(v, "APP_NAME", "CaféCraft"),
			LogLevel:       getString(v, "LOG_LEVEL", "info"),
			Locale:         getString(v, "APP_LOCALE", "en"),
			Currency:       getString(v, "APP_CURRENCY", "PHP"),
			CurrencySymbol: getString(v, "APP_CURRENCY_SYMBOL", "₱"),
			Timezone:       getString(v, "APP_TIMEZONE", ""),
		},
		DB: DBConfig{
			Driver:        strings.ToLower(getString(v, "DB_DRIVER", DriverSQLite)),
			Path:          getString(v, "DB_PATH", "cafecraft.db"),
			DSN:           getString(v, "DB_DSN", ""),
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "postgres"),
			Password:      getString(v, "DB_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "cafecraft"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
			MaxOpenConns:  getInt(v, "DB_MAX_OPEN_CONNS", 10),
			BusyTimeoutMS: getInt(v, "DB_BUSY_TIMEOUT_MS", 5000),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "cafecraft"),
		},
		HTTP: HTTPConfig{
			Host:         getString(v, "HTTP_HOST", "127.0.0.1"),
			Port:         getInt(v, "HTTP_PORT", 8080),
			ReadTimeout:  time.Duration(getInt(v, "HTTP_READ_TIMEOUT_SECONDS", 10)) * time.Second,
			WriteTimeout: time.Duration(getInt(v, "HTTP_WRITE_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Setup: SetupConfig{
			OwnerPassword:    getString(v, "SETUP_OWNER_PASSWORD", "CafeCraft#Owner1"),
			EmployeePassword: getString(v, "SETUP_EMPLOYEE_PASSWORD", "CafeCraft#Staff1"),
			Retries:          getInt(v, "SETUP_RETRIES", 3),
			SampleMenu:       getBool(v, "SETUP_SAMPLE_MENU", true),
		},
		ML: MLConfig{
			ModelPath:     getString(v, "ML_MODEL_PATH", filepath.Join("models", "recommender.json")),
			MinSupport:    getFloat(v, "ML_MIN_SUPPORT", 0.05),
			MinConfidence: getFloat(v, "ML_MIN_CONFIDENCE", 0.3),
			TopK:          getInt(v, "ML_TOP_K", 3),
		},
		Receipts: ReceiptsConfig{
			Dir:       getString(v, "RECEIPTS_DIR", "receipts"),
			ShopName:  getString(v, "RECEIPTS_SHOP_NAME", "CaféCraft"),
			Address:   getString(v, "RECEIPTS_ADDRESS", ""),
			Footer:    getString(v, "RECEIPTS_FOOTER", ""),
			VerifyKey: getString(v, "RECEIPTS_VERIFY_KEY", "cafecraft"),
		},
		Backup: BackupConfig{
			Dir: getString(v, "BACKUP_DIR", "backups"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("config: DB_DRIVER no soportado: %q", c.DB.Driver)
	}
	if c.DB.Driver == DriverMySQL && c.DB.DSN == "" {
		return fmt.Errorf("config: DB_DSN es obligatorio con mysql")
	}
	if _, err := currency.ParseISO(c.App.Currency); err != nil {
		return fmt.Errorf("config: APP_CURRENCY inválida %q: %w", c.App.Currency, err)
	}
	if c.JWT.Secret == "" {
		if c.App.Env != "development" && c.App.Env != "test" {
			return fmt.Errorf("config: JWT_SECRET es obligatorio en %s", c.App.Env)
		}
		c.JWT.Secret = "cafecraft-dev-secret-change-me"
	}
	if c.App.Env == "production" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("config: JWT_SECRET debe tener al menos 32 caracteres en producción")
	}
	if c.ML.MinSupport <= 0 || c.ML.MinSupport > 1 || c.ML.MinConfidence <= 0 || c.ML.MinConfidence > 1 {
		return fmt.Errorf("config: ML_MIN_SUPPORT y ML_MIN_CONFIDENCE deben estar en (0, 1]")
	}
	if c.Setup.Retries < 1 {
		c.Setup.Retries = 1
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		if s, ok := v.Get(key).(string); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return def
			}
			return f
		}
		return v.GetFloat64(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
