// This file starts real databases, and optionally the service itself, with testcontainers.
// It is used by the integration tests and by the standalone cmd/testcontainers executable,
// which passes a nil *testing.T.

package testhelpers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/localnerve/ecommerce-api/data"
	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Credentials every test database is created with
const (
	TestDatabase     = "ecommerce"
	TestUser         = "ecommerce"
	TestPassword     = "ecommerce-pass"
	TestRootPassword = "ecommerce-root"
	dbNetworkAlias   = "db"
	appImageName     = "ecommerce-api-test:latest"
)

// DatabaseContainer is a started database and the configuration that reaches it from the host
type DatabaseContainer struct {
	Container testcontainers.Container
	Config    *config.Config
	// Port is the port inside the container, as seen from the container network
	Port nat.Port
}

// Terminate stops and removes the container
func (d *DatabaseContainer) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// TestContainers is the full stack: a database and the service container on one network
type TestContainers struct {
	Network             *testcontainers.DockerNetwork
	Database            *DatabaseContainer
	AppContainer        testcontainers.Container
	AppBuilderContainer testcontainers.Container
}

// Terminate tears the stack down in reverse start order
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.AppContainer != nil {
		if err := tc.AppContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate app container: %v", err)
		}
	}
	if tc.AppBuilderContainer != nil {
		if err := tc.AppBuilderContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate app builder: %v", err)
		}
	}
	if err := tc.Database.Terminate(ctx); err != nil {
		logMessage(t, "Failed to terminate database: %v", err)
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// StartDatabase starts a MariaDB or Postgres container. When nw is not nil the
// container joins it under the alias "db".
func StartDatabase(ctx context.Context, dbType string, nw *testcontainers.DockerNetwork) (*DatabaseContainer, error) {
	switch dbType {
	case "mysql", "mariadb":
		return startMariaDB(ctx, nw)
	case "postgres", "postgresql":
		return startPostgres(ctx, nw)
	}
	return nil, fmt.Errorf("no test container for database type %s", dbType)
}

func startMariaDB(ctx context.Context, nw *testcontainers.DockerNetwork) (*DatabaseContainer, error) {
	port, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, err
	}

	req := testcontainers.ContainerRequest{
		Image:        imageFromEnv("mariadb:11.4"),
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": TestRootPassword,
			"MYSQL_DATABASE":      TestDatabase,
			"MYSQL_USER":          TestUser,
			"MYSQL_PASSWORD":      TestPassword,
		},
		// The entrypoint runs a temporary server first, so wait for the second one
		WaitingFor: wait.ForAll(
			wait.ForLog("ready for connections").WithOccurrence(2),
			wait.ForListeningPort(port),
		).WithDeadline(90 * time.Second),
	}
	if nw != nil {
		req.Networks = []string{nw.Name}
		req.NetworkAliases = map[string][]string{nw.Name: {dbNetworkAlias}}
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start MariaDB: %w", err)
	}

	return hostConfig(ctx, ctr, "mariadb", port)
}

func startPostgres(ctx context.Context, nw *testcontainers.DockerNetwork) (*DatabaseContainer, error) {
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		return nil, err
	}

	opts := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase(TestDatabase),
		postgres.WithUsername(TestUser),
		postgres.WithPassword(TestPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second)),
	}
	if nw != nil {
		opts = append(opts, network.WithNetwork([]string{dbNetworkAlias}, nw))
	}

	ctr, err := postgres.Run(ctx, imageFromEnv("postgres:16-alpine"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start Postgres: %w", err)
	}

	return hostConfig(ctx, ctr, "postgres", port)
}

// hostConfig builds the service configuration that reaches ctr from the host
func hostConfig(ctx context.Context, ctr testcontainers.Container, dbType string, port nat.Port) (*DatabaseContainer, error) {
	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, port)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg := config.Default()
	cfg.DBType = dbType
	cfg.DBHost = host
	cfg.DBPort = mapped.Port()
	cfg.DBDatabase = TestDatabase
	cfg.DBUser = TestUser
	cfg.DBPassword = TestPassword

	return &DatabaseContainer{Container: ctr, Config: cfg, Port: port}, nil
}

// ConnectWithRetry connects to the database in cfg, retrying for up to 30 seconds
func ConnectWithRetry(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < 30; i++ {
		if db, err = database.Connect(cfg, log); err == nil {
			return db, nil
		}
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("database not ready after 30 seconds: %w", err)
}

// InitSchema creates the tables from the embedded DDL instead of AutoMigrate
func InitSchema(db *gorm.DB, dbType string) error {
	ddl := data.InitdbTables(dbType)
	if ddl == "" {
		return fmt.Errorf("no init sql for database type %s", dbType)
	}
	return ExecuteSQL(db, ddl)
}

// CreateAllTestContainers starts a database and the service image on a shared network.
// The database gets its tables from the embedded DDL and the service runs with
// DB_AUTO_MIGRATE=false against them.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	testContainers := &TestContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	testContainers.Network = nw

	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "mariadb"
	}

	dbContainer, err := StartDatabase(ctx, dbType, nw)
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start Database")
	}
	testContainers.Database = dbContainer

	db, err := ConnectWithRetry(dbContainer.Config, zerolog.Nop())
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to connect to Database")
	}
	err = InitSchema(db, dbType)
	_ = database.Close(db)
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to initialize tables")
	}
	logMessage(t, "DB_URL=%s:%s", dbContainer.Config.DBHost, dbContainer.Config.DBPort)

	exists, err := imageExists(ctx, appImageName)
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to check if image exists")
	}

	appPort, err := nat.NewPort("tcp", "3000")
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to create app port")
	}

	appRequest := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(appPort)},
		Env: map[string]string{
			"PORT":                  appPort.Port(),
			"DB_TYPE":               dbType,
			"DB_HOST":               dbNetworkAlias,
			"DB_PORT":               dbContainer.Port.Port(),
			"DB_DATABASE":           TestDatabase,
			"DB_USER":               TestUser,
			"DB_PASSWORD":           TestPassword,
			"DB_AUTO_MIGRATE":       "false",
			"DUPLICATE_ASSOCIATION": os.Getenv("DUPLICATE_ASSOCIATION"),
			"LOG_FORMAT":            "json",
		},
		WaitingFor: wait.ForHTTP("/health").WithPort(appPort).WithStartupTimeout(30 * time.Second),
		Networks:   []string{nw.Name},
	}
	if appRequest.Env["DUPLICATE_ASSOCIATION"] == "" {
		delete(appRequest.Env, "DUPLICATE_ASSOCIATION")
	}

	if !exists {
		sessionID := uuid.New().String()
		buildArgs := map[string]*string{
			"RESOURCE_REAPER_SESSION_ID": &sessionID,
		}

		buildContext := os.Getenv("TESTCONTAINERS_BUILD_CONTEXT")
		if buildContext == "" {
			buildContext = "../.."
		}

		logMessage(t, "Image %s does not exist, building...", appImageName)
		builder, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    buildContext,
					Dockerfile: "Dockerfile",
					Repo:       "ecommerce-api-test-builder",
					Tag:        "latest",
					BuildArgs:  buildArgs,
					BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
						opts.Target = "builder"
					},
				},
			},
			Started: false,
		})
		if err != nil {
			testContainers.Terminate(t)
			exitWithError(t, err, "Failed to build ecommerce-api-test-builder")
		}
		testContainers.AppBuilderContainer = builder

		nameParts := strings.Split(appImageName, ":")
		appRequest.FromDockerfile = testcontainers.FromDockerfile{
			Context:    buildContext,
			Dockerfile: "Dockerfile",
			Repo:       nameParts[0],
			Tag:        nameParts[1],
			KeepImage:  true,
			BuildArgs:  buildArgs,
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = "runtime"
			},
		}
	} else {
		logMessage(t, "Image %s exists, reusing...", appImageName)
		appRequest.Image = appImageName
	}

	appContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: appRequest,
		Started:          true,
	})
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start ecommerce-api")
	}
	testContainers.AppContainer = appContainer

	appHost, _ := appContainer.Host(ctx)
	mapped, _ := appContainer.MappedPort(ctx, appPort)
	logMessage(t, "BASE_URL=http://%s:%s", appHost, mapped.Port())

	logMessage(t, "ecommerce-api testcontainer started successfully")
	return testContainers, nil
}

// ExecuteSQL runs a script of semicolon separated statements one at a time.
// Line comments are stripped first; quoted text is left alone.
func ExecuteSQL(db *gorm.DB, script string) error {
	lines := strings.Split(script, "\n")

	stripped := make([]string, 0, len(lines))
	for _, l := range lines {
		stripped = append(stripped, excludeComment(l))
	}

	statements := strings.Split(strings.Join(stripped, "\n"), ";")
	for _, s := range statements {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), s)
		}
	}
	return nil
}

// excludeComment drops a trailing "--" comment that is not inside quotes
func excludeComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '-' && i+1 < len(line) && line[i+1] == '-':
			return line[:i]
		}
	}
	return line
}

func imageFromEnv(fallback string) string {
	if img := os.Getenv("DB_IMAGE"); img != "" {
		return img
	}
	return fallback
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
