package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/popmakeup/popmakeup-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestMigrationsContainInvariants(t *testing.T) {
	cases := map[string][]string{
		"*_create_catalog.sql": {
			"CREATE TABLE IF NOT EXISTS dates",
			"CONSTRAINT uq_dates_date UNIQUE (date)",
			"CONSTRAINT uq_categories_name UNIQUE (name)",
			"CONSTRAINT uq_products_prd_code UNIQUE (prd_code)",
			"CONSTRAINT chk_stocks_pieces_nonnegative CHECK (pieces >= 0)",
			"DROP TABLE IF EXISTS stocks",
		},
		"*_create_users.sql": {
			"CONSTRAINT uq_users_user_name UNIQUE (user_name)",
			"CONSTRAINT uq_users_email UNIQUE (email)",
			"CONSTRAINT uq_users_employee_no UNIQUE (employee_no)",
		},
		"*_create_coupons.sql": {
			"CHECK (status IN (1, 2))",
		},
		"*_create_reservations.sql": {
			"CONSTRAINT chk_reservations_target CHECK",
			"CONSTRAINT uq_reservations_stock_user UNIQUE (stock_id, user_id)",
			"CONSTRAINT uq_reservations_my_coupon UNIQUE (my_coupon_id)",
			"CREATE TABLE IF NOT EXISTS transaction_records",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one migration for %s, got %v", pattern, matches)
		}

		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", matches[0], sub)
			}
		}
	}
}

// Reservations are stored as sent; a lot that does not exist is dropped at listing time.
func TestReservationsHaveNoLotForeignKey(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_reservations.sql"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one reservations migration, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	body := strings.Split(string(data), "CREATE TABLE IF NOT EXISTS transaction_records")[0]
	if strings.Contains(body, "REFERENCES stocks") {
		t.Fatalf("reservations must not reference stocks:\n%s", body)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Lot Index!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_lot_index.sql") {
		t.Fatalf("unexpected path %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}

	if _, err := migrate.CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatalf("expected error for empty sanitized name")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename error")
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"20240101000000_a.sql": "-- +goose Up\n",
		"20240101000000_b.sql": "-- +goose Up\n-- +goose Down\n",
		"20240102000000_c.sql": "-- +goose Up\n-- +goose StatementBegin\n-- +goose Down\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	err := migrate.ValidateDir(dir)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"20240101000000_a.sql: missing", "already used by", "StatementBegin vs"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
