package migrate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/TechXTT/pgcursor"
)

// Migration holds one versioned migration
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Manager applies and rolls back migrations over a connection handle
type Manager struct {
	conn          *pgcursor.Conn
	migrationsDir string
	migrations    []Migration
	out           io.Writer
}

var fileName = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// NewManager loads migration files from the specified directory
func NewManager(conn *pgcursor.Conn, migrationsDir string) (*Manager, error) {
	m := &Manager{conn: conn, migrationsDir: migrationsDir, out: os.Stdout}
	if err := m.loadMigrations(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetOutput redirects progress messages, os.Stdout by default.
func (m *Manager) SetOutput(w io.Writer) { m.out = w }

// Migrations returns the loaded migrations in version order.
func (m *Manager) Migrations() []Migration { return m.migrations }

// loadMigrations reads .up.sql/.down.sql files and organizes them by version
func (m *Manager) loadMigrations() error {
	entries, err := os.ReadDir(m.migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	tmp := map[int]*Migration{}
	for _, fi := range entries {
		if fi.IsDir() {
			continue
		}
		matches := fileName.FindStringSubmatch(fi.Name())
		if len(matches) != 4 {
			continue
		}
		ver, _ := strconv.Atoi(matches[1])
		data, err := os.ReadFile(filepath.Join(m.migrationsDir, fi.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", fi.Name(), err)
		}
		mig, exists := tmp[ver]
		if !exists {
			mig = &Migration{Version: ver, Name: matches[2]}
			tmp[ver] = mig
		}
		if matches[3] == "up" {
			mig.UpSQL = string(data)
		} else {
			mig.DownSQL = string(data)
		}
	}
	versions := make([]int, 0, len(tmp))
	for v := range tmp {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	for _, v := range versions {
		m.migrations = append(m.migrations, *tmp[v])
	}
	return nil
}

// exec runs a statement and discards any rows it returns.
func (m *Manager) exec(ctx context.Context, command string) error {
	res, err := m.conn.Exec(ctx, command)
	if err != nil {
		return err
	}
	if res != nil {
		return res.Close()
	}
	return nil
}

// EnsureVersionTable creates schema_migrations if missing
func (m *Manager) EnsureVersionTable(ctx context.Context) error {
	return m.exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INT PRIMARY KEY);`)
}

// CurrentVersion returns the highest applied migration version, 0 if none
func (m *Manager) CurrentVersion(ctx context.Context) (int, error) {
	res, err := m.conn.Exec(ctx, `SELECT MAX(version) FROM schema_migrations;`)
	if err != nil {
		return 0, err
	}
	if res == nil {
		return 0, fmt.Errorf("current version: query returned no rows")
	}
	_, ok, err := res.Step(pgcursor.ShapeNone)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	defer res.Close()

	v, err := res.Value(0)
	if err != nil {
		return 0, err
	}
	if !v.Valid {
		return 0, nil
	}
	return strconv.Atoi(v.String)
}

func (m *Manager) recordVersion(ctx context.Context, version int) error {
	return m.exec(ctx, fmt.Sprintf(`INSERT INTO schema_migrations(version) VALUES(%d);`, version))
}

func (m *Manager) deleteVersion(ctx context.Context, version int) error {
	return m.exec(ctx, fmt.Sprintf(`DELETE FROM schema_migrations WHERE version = %d;`, version))
}

// Up applies all pending migrations
func (m *Manager) Up(ctx context.Context) error {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return err
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		fmt.Fprintf(m.out, "Applying %04d_%s.up.sql\n", mig.Version, mig.Name)
		if err := m.exec(ctx, mig.UpSQL); err != nil {
			return fmt.Errorf("apply up %d: %w", mig.Version, err)
		}
		if err := m.recordVersion(ctx, mig.Version); err != nil {
			return fmt.Errorf("record version %d: %w", mig.Version, err)
		}
	}
	return nil
}

// Down rolls back the latest migration
func (m *Manager) Down(ctx context.Context) error {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return err
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		fmt.Fprintln(m.out, "No migrations to roll back.")
		return nil
	}
	var toRoll *Migration
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if m.migrations[i].Version == current {
			toRoll = &m.migrations[i]
			break
		}
	}
	if toRoll == nil {
		return fmt.Errorf("migration not found for version %d", current)
	}
	fmt.Fprintf(m.out, "Rolling back %04d_%s.down.sql\n", toRoll.Version, toRoll.Name)
	if err := m.exec(ctx, toRoll.DownSQL); err != nil {
		return fmt.Errorf("apply down %d: %w", toRoll.Version, err)
	}
	return m.deleteVersion(ctx, toRoll.Version)
}

// Status reports the applied version and how many migrations are pending
func (m *Manager) Status(ctx context.Context) (string, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return "", err
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return "", err
	}
	pending := 0
	for _, mig := range m.migrations {
		if mig.Version > current {
			pending++
		}
	}
	return fmt.Sprintf("version %d, %d pending", current, pending), nil
}
