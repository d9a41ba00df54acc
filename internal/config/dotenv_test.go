package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")

	path := writeDotEnv(t, `
# local settings

DB_PATH=./test.db
export PORT=9090
APP_ENV="prod"
`)

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("DB_PATH"); got != "./test.db" {
		t.Fatalf("DB_PATH=%q, want %q", got, "./test.db")
	}
	if got := os.Getenv("PORT"); got != "9090" {
		t.Fatalf("PORT=%q, want %q", got, "9090")
	}
	if got := os.Getenv("APP_ENV"); got != "prod" {
		t.Fatalf("APP_ENV=%q, want %q", got, "prod")
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PORT", "3000")

	path := writeDotEnv(t, "PORT=9090\n")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("PORT"); got != "3000" {
		t.Fatalf("PORT=%q, want %q", got, "3000")
	}
}

func TestLoadDotEnv_StripsQuotes(t *testing.T) {
	t.Setenv("DB_PATH", "")

	path := writeDotEnv(t, "DB_PATH='data dir/dev.db'\n")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("DB_PATH"); got != "data dir/dev.db" {
		t.Fatalf("DB_PATH=%q, want %q", got, "data dir/dev.db")
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
}
