package leads

import (
	"testing"

	"lead-sync/core/database"
	"lead-sync/core/reconcile"
	"lead-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFeature_Load(t *testing.T) {
	tests := []struct {
		name    string
		srv     server.Config
		wantErr bool
	}{
		{"Unprotected", server.Config{}, false},
		{"AllowList", server.Config{AllowedIPs: "10.0.0.0/8"}, false},
		{"MalformedAllowList", server.Config{AllowedIPs: "10.0.0.0/33"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
			require.NoError(t, err)
			require.NoError(t, NewStore(db).Migrate())

			f := NewFeature(db, nil, zap.NewNop(), tt.srv, reconcile.Config{IdentityField: "phone", TimeoutSeconds: 5})
			err = f.Load(fiber.New())
			if tt.wantErr {
				assert.ErrorContains(t, err, "allowed_ips")
				return
			}
			assert.NoError(t, err)
		})
	}
}
