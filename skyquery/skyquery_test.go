package skyquery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const m42Answer = `# M42	#Q22776364
#=Sc=Simbad (via url):    1
%@ 1230305
%I.0 M  42
%C.0 HII
%J 083.82208 -05.39111 = 05:35:17.30 -05:23:28.0
%V v 2.5 12 [~]
`

const fitsBody = "SIMPLE  =                    T / conforms to FITS standard"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sesame", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.RawQuery {
		case "M42":
			w.Write([]byte(m42Answer))
		default:
			w.Write([]byte("# nothing\n#! *** Nothing found ***\n"))
		}
	})
	mux.HandleFunc("/skyview", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "FITS", q.Get("Return"))
		assert.Equal(t, "64", q.Get("Pixels"))
		assert.Equal(t, "83.822080,-5.391110", q.Get("Position"))
		switch q.Get("Survey") {
		case "DSS2 Blue":
			w.Write([]byte("<html>no such survey</html>"))
		case "Broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(fitsBody))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	c := DefaultConfig()
	c.ResolverURL = srv.URL + "/sesame"
	c.SkyViewURL = srv.URL + "/skyview"
	c.Pixels = 64
	c.OutputDir = t.TempDir()
	return NewClient(c)
}

func TestParseSesame(t *testing.T) {
	coord, err := ParseSesame([]byte(m42Answer))
	require.NoError(t, err)
	assert.InDelta(t, 83.82208, coord.RA, 1e-9)
	assert.InDelta(t, -5.39111, coord.Dec, 1e-9)
	assert.Equal(t, "RA 05:35:17.30 Dec -05:23:28.0", coord.String())

	_, err = ParseSesame([]byte("#! nothing found\n"))
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = ParseSesame([]byte("%J abc def\n"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	cl := testClient(t, newTestServer(t))
	ctx := context.Background()

	coord, err := cl.Resolve(ctx, " M42 ")
	require.NoError(t, err)
	assert.InDelta(t, 83.82208, coord.RA, 1e-9)

	_, err = cl.Resolve(ctx, "NoSuchThing")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = cl.Resolve(ctx, "  ")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestFetchSurvey(t *testing.T) {
	cl := testClient(t, newTestServer(t))
	ctx := context.Background()
	coord := Coordinates{RA: 83.82208, Dec: -5.39111}

	body, err := cl.FetchSurvey(ctx, coord, "DSS2 Red")
	require.NoError(t, err)
	assert.Equal(t, fitsBody, string(body))

	_, err = cl.FetchSurvey(ctx, coord, "DSS2 Blue")
	assert.ErrorIs(t, err, ErrNotFITS)

	_, err = cl.FetchSurvey(ctx, coord, "Broken")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestDownloadKeepsGoingAfterFailure(t *testing.T) {
	cl := testClient(t, newTestServer(t))

	res, err := cl.Download(context.Background(), "M42")
	require.NoError(t, err)
	assert.False(t, res.Complete())

	red := res.Channels[0]
	assert.Equal(t, "DSS2 IR", red.Survey)
	assert.Equal(t, filepath.Join(cl.Config.OutputDir, "M42_DSS2 IR.fits"), red.Path)
	saved, err := os.ReadFile(red.Path)
	require.NoError(t, err)
	assert.Equal(t, fitsBody, string(saved))

	assert.NoError(t, res.Channels[1].Err)
	assert.ErrorIs(t, res.Channels[2].Err, ErrNotFITS)
	assert.Equal(t, "", res.Channels[2].Path)

	_, err = cl.Download(context.Background(), "NoSuchThing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDownloadComplete(t *testing.T) {
	cl := testClient(t, newTestServer(t))
	cl.Config.Surveys.Blue = "DSS1 Blue"

	res, err := cl.Download(context.Background(), "M42")
	require.NoError(t, err)
	assert.True(t, res.Complete())
	for _, p := range res.Paths() {
		assert.FileExists(t, p)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "NGC 1976_DSS2 Red.fits", FileName("NGC 1976", "DSS2 Red"))
	assert.Equal(t, "a_b_DSS.fits", FileName("a/b", "DSS"))
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.yaml")

	c, err := LoadConfig(path)
	require.NoError(t, err, "a missing file gives the defaults")
	assert.Equal(t, DefaultConfig(), c)

	c.Pixels = 300
	c.Timeout = 5 * time.Second
	c.Surveys.Green = "2MASS-H"
	require.NoError(t, SaveConfig(path, c))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Contains(t, got.AsYaml(), "timeout: 5s")
}

func TestConfigValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pixels: 0\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "pixels")

	require.NoError(t, os.WriteFile(path, []byte("surveys: [oops\n"), 0o644))
	_, err = LoadConfig(path)
	assert.True(t, err != nil && strings.Contains(err.Error(), "parse"))

	c := DefaultConfig()
	c.Surveys.Red = ""
	assert.Error(t, c.Validate())
}
