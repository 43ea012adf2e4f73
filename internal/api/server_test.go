package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nerrad567/sensor-monitor-core/internal/audit"
	"github.com/nerrad567/sensor-monitor-core/internal/auth"
	"github.com/nerrad567/sensor-monitor-core/internal/cache"
	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/config"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/database"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/logging"
	"github.com/nerrad567/sensor-monitor-core/internal/sensor"
	"github.com/nerrad567/sensor-monitor-core/migrations"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

// testServer creates a Server backed by in-memory SQLite with the full schema.
func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	db, err := database.Open(database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	sensorCache, err := cache.New[string, sensor.DTO](64)
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}
	sensors := sensor.NewRegistry(sensor.NewSQLiteRepository(db), sensorCache)
	units := catalog.NewRegistry(catalog.Units, catalog.NewSQLiteRepository(db.DB, catalog.Units))
	types := catalog.NewRegistry(catalog.Types, catalog.NewSQLiteRepository(db.DB, catalog.Types))
	invalidate := func(catalog.Kind, string) { sensors.InvalidateAll() }
	units.OnChange(invalidate)
	types.OnChange(invalidate)

	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Secret:     testSecret,
		RolePrefix: auth.DefaultRolePrefix,
	})
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	log := logging.NewWithWriter(config.LoggingConfig{Level: "error", Format: "text"}, "test", io.Discard)

	srv, err := New(Deps{
		Config:    config.APIConfig{Host: "127.0.0.1", Port: 0},
		Logger:    log,
		Verifier:  verifier,
		Sensors:   sensors,
		Units:     units,
		Types:     types,
		AuditRepo: audit.NewSQLiteRepository(db.DB),
		Checks:    map[string]HealthChecker{"database": db},
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	return srv, srv.Handler()
}

// token mints an HS256 token carrying roles.
func token(t *testing.T, roles ...auth.Role) string {
	t.Helper()

	entries := make([]string, len(roles))
	for i, r := range roles {
		entries[i] = auth.DefaultRolePrefix + string(r)
	}
	claims := jwt.MapClaims{
		"sub":                "7d0c6f1e-0000-4000-8000-000000000001",
		"preferred_username": "ada",
		"spring_sec_roles":   entries,
		"exp":                time.Now().Add(5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// do sends one request through h.
func do(h http.Handler, method, path, bearer, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

const temp1 = `{
	"name": "Temp-1",
	"model": "TX-100",
	"rangeFrom": 0,
	"rangeTo": 100,
	"type": "TEMPERATURE",
	"unit": "Celsius",
	"location": "Room 1",
	"description": "Ambient"
}`

func TestHealth(t *testing.T) {
	_, h := testServer(t)

	rec := do(h, http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestSensorLifecycle(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	rec := do(h, http.MethodPost, "/api/sensors", admin, temp1)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	created := decode[sensor.DTO](t, rec)
	if created.ID == nil {
		t.Fatal("created sensor has no id")
	}
	path := "/api/sensors/" + *created.ID

	rec = do(h, http.MethodGet, path, admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decode[sensor.DTO](t, rec); got.Name != "Temp-1" || *got.RangeFrom != 0 {
		t.Errorf("get = %+v", got)
	}

	rec = do(h, http.MethodPatch, path, admin, `{"rangeFrom":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body)
	}
	if got := decode[sensor.DTO](t, rec); *got.RangeFrom != 10 || *got.RangeTo != 100 {
		t.Errorf("patch = %+v", got)
	}

	rec = do(h, http.MethodGet, path, admin, "")
	if got := decode[sensor.DTO](t, rec); *got.RangeFrom != 10 {
		t.Errorf("get after patch rangeFrom = %d, want 10", *got.RangeFrom)
	}

	update := strings.Replace(temp1, `"unit": "Celsius",`, `"unit": null,`, 1)
	rec = do(h, http.MethodPut, path, admin, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body)
	}
	if got := decode[sensor.DTO](t, rec); got.Unit != nil || *got.RangeFrom != 0 {
		t.Errorf("put = %+v, want unit cleared and rangeFrom 0", got)
	}

	rec = do(h, http.MethodDelete, path, admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if got := decode[sensor.DTO](t, rec); *got.ID != *created.ID {
		t.Errorf("delete returned %+v", got)
	}

	rec = do(h, http.MethodGet, path, admin, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}

	rec = do(h, http.MethodDelete, path, admin, "")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("delete missing = %d %q, want 200 with empty body", rec.Code, rec.Body)
	}

	rec = do(h, http.MethodPut, path, admin, temp1)
	if rec.Code != http.StatusNotFound {
		t.Errorf("put missing status = %d, want 404", rec.Code)
	}
	rec = do(h, http.MethodPatch, path, admin, `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("patch missing status = %d, want 404", rec.Code)
	}
}

func TestAuthorization(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)
	viewer := token(t, auth.RoleViewer)
	nobody := token(t)

	rec := do(h, http.MethodPost, "/api/sensors", admin, temp1)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rec.Code)
	}
	path := "/api/sensors/" + *decode[sensor.DTO](t, rec).ID

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		body   string
		want   int
	}{
		{"no token", http.MethodGet, "/api/sensors", "", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/sensors", "not.a.jwt", "", http.StatusUnauthorized},
		{"no roles read", http.MethodGet, "/api/sensors", nobody, "", http.StatusForbidden},
		{"viewer list", http.MethodGet, "/api/sensors", viewer, "", http.StatusOK},
		{"viewer get", http.MethodGet, path, viewer, "", http.StatusOK},
		{"viewer create", http.MethodPost, "/api/sensors", viewer, temp1, http.StatusForbidden},
		{"viewer create bad body", http.MethodPost, "/api/sensors", viewer, "{", http.StatusForbidden},
		{"viewer patch", http.MethodPatch, path, viewer, `{"rangeFrom":10}`, http.StatusForbidden},
		{"viewer delete", http.MethodDelete, path, viewer, "", http.StatusForbidden},
		{"viewer list units", http.MethodGet, "/api/units", viewer, "", http.StatusOK},
		{"viewer create type", http.MethodPost, "/api/types", viewer, `{"name":"X"}`, http.StatusForbidden},
		{"viewer audit", http.MethodGet, "/api/audit", viewer, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.path, tt.bearer, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 without WWW-Authenticate")
			}
		})
	}

	rec = do(h, http.MethodGet, path, viewer, "")
	if got := decode[sensor.DTO](t, rec); *got.RangeFrom != 0 {
		t.Errorf("forbidden patch changed the sensor: %+v", got)
	}
}

func TestExpiredToken(t *testing.T) {
	_, h := testServer(t)

	claims := jwt.MapClaims{
		"sub":              "ada",
		"spring_sec_roles": []string{"ROLE_ADMINISTRATOR"},
		"exp":              time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	rec := do(h, http.MethodGet, "/api/sensors", expired, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if e := decode[Error](t, rec); e.Code != ErrCodeUnauthorized || e.Message != "token has expired" {
		t.Errorf("error = %+v", e)
	}
}

func TestSensorRequestErrors(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	rec := do(h, http.MethodPost, "/api/sensors", admin, temp1)
	path := "/api/sensors/" + *decode[sensor.DTO](t, rec).ID

	withID := strings.Replace(temp1, "{", `{"id":"6f1c0c8e-0000-4000-8000-000000000001",`, 1)
	inverted := strings.Replace(temp1, `"rangeFrom": 0`, `"rangeFrom": 500`, 1)

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		want      int
		wantCode  string
		wantField string
	}{
		{"create with id", http.MethodPost, "/api/sensors", withID, 422, ErrCodeValidation, "id"},
		{"create inverted range", http.MethodPost, "/api/sensors", inverted, 422, ErrCodeValidation, "rangeFrom"},
		{"create missing fields", http.MethodPost, "/api/sensors", `{}`, 422, ErrCodeValidation, "rangeTo"},
		{"create malformed", http.MethodPost, "/api/sensors", `{"name":`, 400, ErrCodeBadRequest, ""},
		{"update with id", http.MethodPut, path, withID, 422, ErrCodeValidation, "id"},
		{"patch array", http.MethodPatch, path, `[{"op":"replace"}]`, 400, ErrCodePatchFailed, ""},
		{"patch wrong type", http.MethodPatch, path, `{"rangeTo":"high"}`, 400, ErrCodePatchFailed, ""},
		{"patch breaks range", http.MethodPatch, path, `{"rangeTo":-1}`, 422, ErrCodeValidation, "rangeFrom"},
		{"get bad id", http.MethodGet, "/api/sensors/42", "", 400, ErrCodeBadRequest, ""},
		{"list bad sort", http.MethodGet, "/api/sensors?sort=secret", "", 400, ErrCodeBadRequest, ""},
		{"list bad page", http.MethodGet, "/api/sensors?page=x", "", 400, ErrCodeBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.path, admin, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
			e := decode[Error](t, rec)
			if e.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", e.Code, tt.wantCode)
			}
			if tt.wantField == "" {
				return
			}
			found := false
			for _, f := range e.Errors {
				found = found || f.Field == tt.wantField
			}
			if !found {
				t.Errorf("errors = %+v, want one for %q", e.Errors, tt.wantField)
			}
		})
	}
}

func TestListSensors(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	for _, nm := range [][2]string{{"Temp-1", "TX-100"}, {"Temp-2", "HX-200"}, {"Humid-1", "TX-200"}} {
		body := strings.Replace(temp1, `"Temp-1"`, `"`+nm[0]+`"`, 1)
		body = strings.Replace(body, `"TX-100"`, `"`+nm[1]+`"`, 1)
		if rec := do(h, http.MethodPost, "/api/sensors", admin, body); rec.Code != http.StatusCreated {
			t.Fatalf("seed %s status = %d", nm[0], rec.Code)
		}
	}

	type page struct {
		Content []sensor.DTO `json:"content"`
		Page    struct {
			Size          int   `json:"size"`
			Number        int   `json:"number"`
			TotalElements int64 `json:"totalElements"`
			TotalPages    int   `json:"totalPages"`
		} `json:"page"`
	}

	rec := do(h, http.MethodGet, "/api/sensors?nameContains=Temp&modelContains=TX", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[page](t, rec)
	if len(got.Content) != 1 || got.Content[0].Name != "Temp-1" || got.Page.TotalElements != 1 {
		t.Errorf("filtered = %+v", got)
	}

	rec = do(h, http.MethodGet, "/api/sensors?size=2&page=0&sort=name,desc", admin, "")
	got = decode[page](t, rec)
	if len(got.Content) != 2 || got.Content[0].Name != "Temp-2" {
		t.Errorf("sorted page = %+v", got.Content)
	}
	if got.Page.Size != 2 || got.Page.TotalElements != 3 || got.Page.TotalPages != 2 {
		t.Errorf("page meta = %+v", got.Page)
	}

	rec = do(h, http.MethodGet, "/api/sensors?nameContains=Pressure", admin, "")
	if got := decode[page](t, rec); got.Content == nil || len(got.Content) != 0 {
		t.Errorf("empty result content = %v, want []", got.Content)
	}
}

func TestETag(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	rec := do(h, http.MethodPost, "/api/sensors", admin, temp1)
	path := "/api/sensors/" + *decode[sensor.DTO](t, rec).ID

	rec = do(h, http.MethodGet, path, admin, "")
	tag := rec.Header().Get("ETag")
	if !strings.HasPrefix(tag, `W/"`) {
		t.Fatalf("ETag = %q, want a weak tag", tag)
	}

	rec = do(h, http.MethodGet, path, admin, "", "If-None-Match", tag)
	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Errorf("conditional get = %d %q, want 304 without body", rec.Code, rec.Body)
	}

	do(h, http.MethodPatch, path, admin, `{"location":"Room 2"}`)
	rec = do(h, http.MethodGet, path, admin, "", "If-None-Match", tag)
	if rec.Code != http.StatusOK || rec.Header().Get("ETag") == tag {
		t.Errorf("after patch status = %d etag = %q, want 200 with a new tag", rec.Code, rec.Header().Get("ETag"))
	}

	rec = do(h, http.MethodGet, "/api/sensors/6f1c0c8e-0000-4000-8000-000000000009", admin, "")
	if rec.Code != http.StatusNotFound || rec.Header().Get("ETag") != "" {
		t.Errorf("404 = %d with ETag %q", rec.Code, rec.Header().Get("ETag"))
	}
}

func TestCatalogEndpoints(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	rec := do(h, http.MethodPost, "/api/types", admin, `{"name":"HUMIDITY"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create type status = %d", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/api/types", admin, `{"name":"HUMIDITY"}`); rec.Code != http.StatusConflict {
		t.Errorf("duplicate type status = %d, want 409", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/api/units", admin, `{"id":"x","name":"Pa"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unit with id status = %d, want 422", rec.Code)
	}

	humid := strings.Replace(temp1, `"TEMPERATURE"`, `"HUMIDITY"`, 1)
	rec = do(h, http.MethodPost, "/api/sensors", admin, humid)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sensor status = %d", rec.Code)
	}
	sensorPath := "/api/sensors/" + *decode[sensor.DTO](t, rec).ID

	if rec := do(h, http.MethodGet, "/api/units/Celsius", admin, ""); rec.Code != http.StatusOK {
		t.Errorf("unit created by sensor write: status = %d", rec.Code)
	}

	if rec := do(h, http.MethodDelete, "/api/types/HUMIDITY", admin, ""); rec.Code != http.StatusConflict {
		t.Errorf("delete referenced type status = %d, want 409", rec.Code)
	}

	// Warm the sensor cache, then rename the unit underneath it.
	do(h, http.MethodGet, sensorPath, admin, "")
	rec = do(h, http.MethodPut, "/api/units/Celsius", admin, `{"name":"Kelvin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("rename unit status = %d, body %s", rec.Code, rec.Body)
	}
	rec = do(h, http.MethodGet, sensorPath, admin, "")
	if got := decode[sensor.DTO](t, rec); got.Unit == nil || *got.Unit != "Kelvin" {
		t.Errorf("sensor unit after rename = %v, want Kelvin", got.Unit)
	}

	if rec := do(h, http.MethodDelete, "/api/units/Kelvin", admin, ""); rec.Code != http.StatusOK {
		t.Errorf("delete unit status = %d", rec.Code)
	}
	rec = do(h, http.MethodGet, sensorPath, admin, "")
	if got := decode[sensor.DTO](t, rec); got.Unit != nil {
		t.Errorf("sensor unit after unit delete = %q, want null", *got.Unit)
	}

	rec = do(h, http.MethodDelete, "/api/units/Kelvin", admin, "")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("delete missing unit = %d %q, want 200 with empty body", rec.Code, rec.Body)
	}
	if rec := do(h, http.MethodGet, "/api/units/Kelvin", admin, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get missing unit status = %d, want 404", rec.Code)
	}
}

func TestAuditTrail(t *testing.T) {
	srv, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.drainAuditLog(ctx)
	}()

	rec := do(h, http.MethodPost, "/api/sensors", admin, temp1)
	id := *decode[sensor.DTO](t, rec).ID
	do(h, http.MethodPatch, "/api/sensors/"+id, admin, `{"rangeFrom":10}`)

	cancel()
	<-done

	rec = do(h, http.MethodGet, "/api/audit?entity_type=sensor&entity_id="+id, admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("audit status = %d", rec.Code)
	}
	result := decode[audit.ListResult](t, rec)
	if result.Total != 2 {
		t.Fatalf("audit total = %d, want 2", result.Total)
	}
	for _, l := range result.Logs {
		if l.Principal != "ada" {
			t.Errorf("principal = %q, want ada", l.Principal)
		}
	}

	if rec := do(h, http.MethodGet, "/api/audit?limit=ten", admin, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, h := testServer(t)

	rec := do(h, http.MethodOptions, "/api/sensors", "", "", "Origin", "https://ops.example.com")
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://ops.example.com" {
		t.Errorf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() without logger should fail")
	}
}

func TestCatalogEscapedNames(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	for _, body := range []string{`{"name":"m/s"}`, `{"name":"%RH"}`} {
		if rec := do(h, http.MethodPost, "/api/units", admin, body); rec.Code != http.StatusCreated {
			t.Fatalf("create %s status = %d", body, rec.Code)
		}
	}

	rec := do(h, http.MethodGet, "/api/units/m%2Fs", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get m/s status = %d, body %s", rec.Code, rec.Body)
	}
	if got := decode[catalog.DTO](t, rec); got.Name != "m/s" {
		t.Errorf("get m/s name = %q", got.Name)
	}

	if rec := do(h, http.MethodGet, "/api/units/%25RH", admin, ""); rec.Code != http.StatusOK {
		t.Errorf("get %%RH status = %d", rec.Code)
	}

	rec = do(h, http.MethodPut, "/api/units/m%2Fs", admin, `{"name":"km/h"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("rename m/s status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(h, http.MethodDelete, "/api/units/km%2Fh", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete km/h status = %d", rec.Code)
	}
	if got := decode[catalog.DTO](t, rec); got.Name != "km/h" {
		t.Errorf("delete km/h returned %+v", got)
	}

	if rec := do(h, http.MethodGet, "/api/units/km%2Fh", admin, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestSensorNonCanonicalID(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	rec := do(h, http.MethodPost, "/api/sensors", admin, temp1)
	id := *decode[sensor.DTO](t, rec).ID
	upper := "/api/sensors/" + strings.ToUpper(id)

	rec = do(h, http.MethodGet, upper, admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get upper status = %d", rec.Code)
	}
	if got := decode[sensor.DTO](t, rec); *got.ID != id {
		t.Errorf("get upper id = %q, want %q", *got.ID, id)
	}

	if rec := do(h, http.MethodPatch, upper, admin, `{"rangeFrom":10}`); rec.Code != http.StatusOK {
		t.Errorf("patch upper status = %d", rec.Code)
	}

	rec = do(h, http.MethodDelete, upper, admin, "")
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Fatalf("delete upper = %d %q, want the removed sensor", rec.Code, rec.Body)
	}
	if rec := do(h, http.MethodGet, "/api/sensors/"+id, admin, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestListSensors_PageOutOfRange(t *testing.T) {
	_, h := testServer(t)
	admin := token(t, auth.RoleAdministrator)

	rec := do(h, http.MethodGet, "/api/sensors?page=461168601842738791", admin, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
