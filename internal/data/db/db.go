package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	Driver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresSSLMode  string

	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (o Options) dsn() string {
	if o.Driver == DriverSQLite {
		if o.SQLitePath == "" {
			return "file::memory:?cache=shared"
		}
		return o.SQLitePath
	}
	sslMode := o.PostgresSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		o.PostgresUser,
		o.PostgresPassword,
		o.PostgresHost,
		o.PostgresPort,
		o.PostgresName,
		sslMode,
	)
}

type Service struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

// Open connects to the configured store and tunes the connection pool.
// The pool is the only resource shared across requests.
func Open(opts Options, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", opts.Driver)

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverPostgres:
		opts.Driver = DriverPostgres
		dialector = postgres.Open(opts.dsn())
	case DriverSQLite:
		opts.Driver = DriverSQLite
		dialector = sqlite.Open(opts.dsn())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Driver, err)
	}

	if err := TunePool(db, opts); err != nil {
		return nil, err
	}

	serviceLog.Info("Database connected")
	return &Service{db: db, driver: opts.Driver, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB   { return s.db }
func (s *Service) Driver() string { return s.driver }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func TunePool(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen / 2
		if maxIdle < 1 {
			maxIdle = 1
		}
	}
	// sqlite allows a single writer.
	if opts.Driver == DriverSQLite {
		maxOpen, maxIdle = 1, 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return nil
}

// activeLinkIndex enforces link identifier uniqueness among active rows, so a
// soft-deleted video can be added again. Postgres and sqlite both accept
// partial indexes in this form.
const activeLinkIndex = "idx_solution_active_link_identifier"

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&catalog.Solution{},
	); err != nil {
		return err
	}
	// Older schemas carried a full unique index on link_identifier.
	if err := db.Exec("DROP INDEX IF EXISTS idx_solution_link_identifier").Error; err != nil {
		return fmt.Errorf("drop legacy link index: %w", err)
	}
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS " + activeLinkIndex +
			" ON solution (link_identifier) WHERE is_active = true AND link_identifier IS NOT NULL",
	).Error; err != nil {
		return fmt.Errorf("create %s: %w", activeLinkIndex, err)
	}
	return nil
}
