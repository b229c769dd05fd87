package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"expenses/internal/config"
	"expenses/internal/persistence/memory"
	"expenses/internal/persistence/rest"
	"expenses/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	app := config.Defaults()
	app.DataBackend = "bogus"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	app = config.Defaults()
	app.ExpensesAPIURL = "https://example.test"
	app.ExpensesAPIToken = "tok"
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != RESTBackend || cfg.RESTBaseURL != "https://example.test" || cfg.RESTToken != "tok" || cfg.RESTTimeout != 10*time.Second {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"rest ok", Config{Type: RESTBackend, RESTBaseURL: "http://x"}, false},
		{"rest missing url", Config{Type: RESTBackend}, true},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"sheets missing creds", Config{Type: SheetsBackend, GoogleSpreadsheetID: "x"}, true},
		{"sheets ok", Config{Type: SheetsBackend, GoogleSpreadsheetID: "x", GoogleServiceAccountJSON: "{}"}, false},
		{"memory ok", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := res.Backend.(*memory.Store); !ok {
		t.Fatalf("memory backend has type %T", res.Backend)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	res, err = f.CreateBackend(ctx, Config{Type: RESTBackend, RESTBaseURL: "http://localhost:9"})
	if err != nil {
		t.Fatalf("rest: %v", err)
	}
	if _, ok := res.Backend.(*rest.Client); !ok {
		t.Fatalf("rest backend has type %T", res.Backend)
	}

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "e.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := res.Backend.(*storage.SQLiteRepository); !ok {
		t.Fatalf("sqlite backend has type %T", res.Backend)
	}
	if res.Cleanup == nil {
		t.Fatal("sqlite backend must return a cleanup")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := f.CreateBackend(ctx, Config{Type: SheetsBackend}); err == nil {
		t.Fatal("expected error for incomplete sheets config")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	want := []string{"rest", "memory", "sqlite", "sheets"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
