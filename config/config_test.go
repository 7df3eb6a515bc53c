package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRejectsLiveSecretKey(t *testing.T) {
	setEnv(t, "YOOKASSA_SECRET_KEY", "live_abcdef")
	_, err := Load()
	if !errors.Is(err, ErrLiveSecretKey) {
		t.Fatalf("expected ErrLiveSecretKey, got %v", err)
	}
}

func TestLoadAllowsMissingSecretKey(t *testing.T) {
	unsetEnv(t, "YOOKASSA_SECRET_KEY")
	unsetEnv(t, "STORE_DRIVER")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.YooKassa.SecretKey != "" {
		t.Fatalf("expected empty secret key, got %q", cfg.YooKassa.SecretKey)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Fatalf("expected memory store by default, got %q", cfg.Store.Driver)
	}
}

func TestLoadRequiresMySQLDSNForMySQLDriver(t *testing.T) {
	setEnv(t, "STORE_DRIVER", "mysql")
	unsetEnv(t, "MYSQL_DSN")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadRejectsUnknownStoreDriver(t *testing.T) {
	setEnv(t, "STORE_DRIVER", "redis")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported store driver")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setEnv(t, "YOOKASSA_SECRET_KEY", "test_secret")
	setEnv(t, "YOOKASSA_SHOP_ID", "123456")
	setEnv(t, "STORE_DRIVER", "MySQL")
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/checkout?parseTime=true")
	setEnv(t, "FRONTEND_URL", "https://shop.example")
	unsetEnv(t, "HTTP_PORT")
	setEnv(t, "PORT", "3100")
	setEnv(t, "GRPC_PORT", "9191")
	setEnv(t, "YOOKASSA_HTTP_TIMEOUT_SECONDS", "7")
	setEnv(t, "PAYMENTS_GATEWAY_TIMEOUT_SECONDS", "12")
	setEnv(t, "RECONCILE_STALE_AFTER_MINUTES", "13")
	setEnv(t, "RECONCILE_BATCH_SIZE", "99")
	setEnv(t, "RECONCILE_INTERVAL_SECONDS", "45")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Store.Driver != StoreDriverMySQL {
		t.Fatalf("unexpected store driver: %s", cfg.Store.Driver)
	}
	if cfg.HTTP.Port != "3100" || cfg.GRPC.Port != "9191" {
		t.Fatalf("unexpected ports: http=%s grpc=%s", cfg.HTTP.Port, cfg.GRPC.Port)
	}
	if cfg.App.FrontendURL != "https://shop.example" {
		t.Fatalf("unexpected frontend url: %s", cfg.App.FrontendURL)
	}
	if cfg.YooKassa.ShopID != "123456" || cfg.YooKassa.SecretKey != "test_secret" {
		t.Fatalf("unexpected yookassa credentials: %+v", cfg.YooKassa)
	}
	if cfg.YooKassa.HTTPTimeout != 7*time.Second {
		t.Fatalf("unexpected yookassa timeout: %v", cfg.YooKassa.HTTPTimeout)
	}
	if cfg.Payments.Currency != "RUB" {
		t.Fatalf("unexpected currency: %s", cfg.Payments.Currency)
	}
	if cfg.Payments.GatewayTimeout != 12*time.Second {
		t.Fatalf("unexpected gateway timeout: %v", cfg.Payments.GatewayTimeout)
	}
	if cfg.Payments.ReconcileStaleAfter != 13*time.Minute {
		t.Fatalf("unexpected reconcile stale after: %v", cfg.Payments.ReconcileStaleAfter)
	}
	if cfg.Payments.JobBatchSize != 99 {
		t.Fatalf("unexpected job batch size: %d", cfg.Payments.JobBatchSize)
	}
	if cfg.Jobs.ReconcileInterval != 45*time.Second {
		t.Fatalf("unexpected reconcile interval: %v", cfg.Jobs.ReconcileInterval)
	}
}
