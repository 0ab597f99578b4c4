package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "obralink-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "egresos", cfg.Movement.EgressTypeName)
	assert.Equal(t, "ingresos", cfg.Movement.IngressTypeName)
	assert.Equal(t, 6*time.Hour, cfg.Reconciliation.Interval)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 100
		assert.Error(t, cfg.validate())
	})

	t.Run("invalid sentinel UUID is rejected", func(t *testing.T) {
		cfg := base()
		cfg.Movement.SubcontractSubcategoryID = "not-a-uuid"
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		assert.Error(t, cfg.validate())

		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestMovementSentinels(t *testing.T) {
	t.Run("empty values disable the sentinels", func(t *testing.T) {
		m := MovementConfig{}
		s, err := m.Sentinels()
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, s.SubcontractSubcategoryID)
		assert.Equal(t, uuid.Nil, s.PersonnelSubcategoryID)
	})

	t.Run("parses configured IDs", func(t *testing.T) {
		sub := uuid.New()
		per := uuid.New()
		m := MovementConfig{
			SubcontractSubcategoryID: sub.String(),
			PersonnelSubcategoryID:   per.String(),
		}
		s, err := m.Sentinels()
		require.NoError(t, err)
		assert.Equal(t, sub, s.SubcontractSubcategoryID)
		assert.Equal(t, per, s.PersonnelSubcategoryID)
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "obralink",
		Password: "p@ss/word",
		DBName:   "obralink",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped.
	assert.NotContains(t, dsn, "p@ss/word")
}
