// Package skyquery resolves astronomical object names to sky coordinates
// (CDS Sesame) and downloads survey images around them (NASA SkyView).
package skyquery

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrNotFITS        = errors.New("response is not a FITS file")
)

// StatusError is returned when a service answers with a non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Coordinates are ICRS right ascension and declination, in degrees.
type Coordinates struct {
	RA  float64
	Dec float64
}

// String formats RA in hours and Dec in degrees, sexagesimal.
func (c Coordinates) String() string {
	h, m, s := sexagesimal(c.RA / 15)
	sign := "+"
	if c.Dec < 0 {
		sign = "-"
	}
	d, dm, ds := sexagesimal(math.Abs(c.Dec))
	return fmt.Sprintf("RA %02d:%02d:%05.2f Dec %s%02d:%02d:%04.1f", h, m, s, sign, d, dm, ds)
}

func sexagesimal(v float64) (int, int, float64) {
	whole := math.Floor(v)
	minutes := (v - whole) * 60
	m := math.Floor(minutes)
	return int(whole), int(m), (minutes - m) * 60
}

// Client talks to the resolver and the survey service.
type Client struct {
	Config Config
	HTTP   *http.Client
	Log    *slog.Logger
}

// NewClient returns a client for c that logs through slog.Default. Each
// request is bounded by c.Timeout.
func NewClient(c Config) *Client {
	return &Client{
		Config: c,
		HTTP:   &http.Client{Timeout: c.Timeout},
		Log:    slog.Default(),
	}
}

func (cl *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// Resolve looks name up with Sesame and returns its J2000 position.
func (cl *Client) Resolve(ctx context.Context, name string) (Coordinates, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Coordinates{}, fmt.Errorf("%w: empty name", ErrObjectNotFound)
	}
	u := strings.TrimRight(cl.Config.ResolverURL, "?") + "?" + url.PathEscape(name)
	cl.Log.Debug("resolving object", "name", name, "url", u)

	body, err := cl.get(ctx, u)
	if err != nil {
		return Coordinates{}, fmt.Errorf("resolve %q: %w", name, err)
	}
	coord, err := ParseSesame(body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("resolve %q: %w", name, err)
	}
	return coord, nil
}

// ParseSesame extracts the first "%J ra dec" line of a Sesame plain-text answer.
func ParseSesame(body []byte) (Coordinates, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "%J ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		ra, err1 := strconv.ParseFloat(fields[1], 64)
		dec, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil {
			return Coordinates{}, fmt.Errorf("malformed position line %q", line)
		}
		return Coordinates{RA: ra, Dec: dec}, nil
	}
	if err := scanner.Err(); err != nil {
		return Coordinates{}, err
	}
	return Coordinates{}, ErrObjectNotFound
}

// SurveyURL builds the SkyView query returning a FITS image of the survey.
func (cl *Client) SurveyURL(coord Coordinates, survey string) string {
	q := url.Values{}
	q.Set("Position", fmt.Sprintf("%.6f,%.6f", coord.RA, coord.Dec))
	q.Set("Survey", survey)
	q.Set("Pixels", strconv.Itoa(cl.Config.Pixels))
	q.Set("Return", "FITS")
	for k, v := range cl.Config.Extra {
		q.Set(k, v)
	}
	return cl.Config.SkyViewURL + "?" + q.Encode()
}

// FetchSurvey downloads one survey image.
func (cl *Client) FetchSurvey(ctx context.Context, coord Coordinates, survey string) ([]byte, error) {
	u := cl.SurveyURL(coord, survey)
	cl.Log.Debug("fetching survey", "survey", survey, "url", u)

	body, err := cl.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", survey, err)
	}
	if !bytes.HasPrefix(body, []byte("SIMPLE")) {
		return nil, fmt.Errorf("survey %s: %w", survey, ErrNotFITS)
	}
	return body, nil
}

// ChannelResult is the outcome of one survey download.
type ChannelResult struct {
	Survey string
	Path   string
	Err    error
}

// Result is the outcome of Download, channels in red, green, blue order.
type Result struct {
	Object   string
	Position Coordinates
	Channels [3]ChannelResult
}

// Complete reports whether all three surveys were saved.
func (r Result) Complete() bool {
	for _, c := range r.Channels {
		if c.Err != nil || c.Path == "" {
			return false
		}
	}
	return true
}

// Paths returns the saved files in red, green, blue order.
func (r Result) Paths() []string {
	return []string{r.Channels[0].Path, r.Channels[1].Path, r.Channels[2].Path}
}

// Download resolves name and saves one FITS file per configured survey as
// "<name>_<survey>.fits" in the output directory. A failing survey does not
// stop the others; its error is kept in the result. The returned error is
// only set when the name cannot be resolved.
func (cl *Client) Download(ctx context.Context, name string) (Result, error) {
	res := Result{Object: name}

	coord, err := cl.Resolve(ctx, name)
	if err != nil {
		return res, err
	}
	res.Position = coord
	cl.Log.Info("object resolved", "name", name, "position", coord.String())

	for i, survey := range cl.Config.Surveys.List() {
		ch := ChannelResult{Survey: survey}
		body, err := cl.FetchSurvey(ctx, coord, survey)
		if err == nil {
			ch.Path = filepath.Join(cl.Config.OutputDir, FileName(name, survey))
			err = os.WriteFile(ch.Path, body, 0o644)
		}
		if err != nil {
			cl.Log.Warn("survey download failed", "survey", survey, "err", err)
			ch.Path = ""
			ch.Err = err
		} else {
			cl.Log.Info("survey saved", "survey", survey, "path", ch.Path)
		}
		res.Channels[i] = ch
	}
	return res, nil
}

// FileName returns "<name>_<survey>.fits" with path separators removed.
func FileName(name, survey string) string {
	clean := strings.NewReplacer("/", "_", "\\", "_").Replace(name + "_" + survey)
	return strings.TrimSpace(clean) + ".fits"
}
