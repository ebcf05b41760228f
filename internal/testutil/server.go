// Shared test server setup, which simplifies all API tests.

package testutil

import (
	"testing"

	"cinelog/internal/api"
	"cinelog/internal/config"
	"cinelog/internal/core"
)

// TestEnv bundles everything an API-level test needs: the server under
// test, the app it was built from, and the fake upstreams to inspect.
type TestEnv struct {
	Server      *api.Server
	App         *core.App
	Persistence *FakePersistence
}

// SetupTestServer initializes a full core.App and api.Server wired to fake
// catalog and persistence upstreams and an in-memory database.
func SetupTestServer(t *testing.T) *TestEnv {
	t.Helper()

	database := SetupTestDB(t)
	fakeCatalog := SetupFakeCatalog(t)
	fakePersist := SetupFakePersistence(t)

	cfg := &config.Config{}
	cfg.Catalog.BaseURL = fakeCatalog.URL
	cfg.Catalog.APIKey = "test-key"
	cfg.Catalog.ImageBaseURL = fakeCatalog.URL + "/img"
	cfg.Persistence.BaseURL = fakePersist.URL()
	cfg.SessionTTLHours = 1

	app := core.NewWith(cfg, database)
	app.Version = "test"
	go app.WsHub().Run()

	return &TestEnv{
		Server:      api.NewServer(app),
		App:         app,
		Persistence: fakePersist,
	}
}
