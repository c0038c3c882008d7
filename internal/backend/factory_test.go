package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"finanze/internal/config"
	"finanze/internal/core"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		config  Config
		want    string
		wantErr bool
	}{
		{
			name:   "json",
			config: Config{Type: JSONBackend, DataFile: filepath.Join(dir, "ledger.json")},
			want:   "*storage.FileRepository",
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "ledger.db")},
			want:   "*storage.SQLiteRepository",
		},
		{
			name:   "memory",
			config: Config{Type: MemoryBackend, DataDirectory: dir},
			want:   "*storage.MemoryRepository",
		},
		{
			name:    "invalid type",
			config:  Config{Type: "sheets"},
			wantErr: true,
		},
		{
			name:    "json without file",
			config:  Config{Type: JSONBackend},
			wantErr: true,
		},
		{
			name:    "amqp without queue",
			config:  Config{Type: MemoryBackend, AMQPURL: "amqp://localhost/", AMQPExchange: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewFactory(nil).CreateBackend(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Repository.Close()

			if got := fmt.Sprintf("%T", res.Repository); got != tt.want {
				t.Errorf("repository = %s, want %s", got, tt.want)
			}
			if res.Notifier != nil {
				t.Error("notifier should be nil without AMQP_URL")
			}

			snap, err := res.Repository.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !slices.Contains(snap.Categories, core.ReservedCategory) {
				t.Errorf("categories = %v", snap.Categories)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("unknown backend should fail")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "json",
		DataFile:     "ledger.json",
		AMQPURL:      "amqp://localhost/",
		AMQPExchange: "finanze",
		AMQPQueue:    "ledger_events",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != JSONBackend || cfg.DataFile != "ledger.json" || cfg.AMQPQueue != "ledger_events" {
		t.Errorf("config = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if !slices.Equal(got, config.ValidBackends) {
		t.Errorf("backend types %v differ from config %v", got, config.ValidBackends)
	}
}
