package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flamelink/pkg/buildinfo"
	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/flame"
	"github.com/matzehuels/flamelink/pkg/kernel"
	"github.com/matzehuels/flamelink/pkg/pipeline"
)

type healthResponse struct {
	Status     string         `json:"status"`
	Build      buildinfo.Info `json:"build"`
	Variations int            `json:"variations"`
	Library    int            `json:"library"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Build:      buildinfo.Get(),
		Variations: s.runner.Catalog.Len(),
		Library:    s.runner.Library.Len(),
	})
}

type paramJSON struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Default float64  `json:"default"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	NonZero bool     `json:"non_zero,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Derived bool     `json:"derived,omitempty"`
}

type variationJSON struct {
	Name         string      `json:"name"`
	Kinds        string      `json:"kinds"`
	Pass         string      `json:"pass"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Params       []paramJSON `json:"params,omitempty"`
	Doc          string      `json:"doc,omitempty"`
	Template     string      `json:"template,omitempty"`
}

func variationView(d *catalog.Descriptor, withTemplate bool) variationJSON {
	v := variationJSON{
		Name:         d.Name,
		Kinds:        d.Kinds.String(),
		Pass:         d.Pass().String(),
		Dependencies: d.Dependencies,
		Doc:          d.Doc,
	}
	for _, p := range d.Params {
		pj := paramJSON{
			Name:    p.Name,
			Kind:    p.Kind.String(),
			Default: p.Default,
			NonZero: p.NonZero,
			Choices: p.Choices,
			Derived: p.IsDerived(),
		}
		if p.Bounded {
			pj.Min, pj.Max = &p.Min, &p.Max
		}
		v.Params = append(v.Params, pj)
	}
	if withTemplate {
		v.Template = d.Template.Source()
	}
	return v
}

func (s *Server) handleVariations(w http.ResponseWriter, r *http.Request) {
	var kind catalog.Kind
	if q := r.URL.Query().Get("kind"); q != "" {
		k, err := catalog.ParseKind(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		kind = k
	}
	descs := s.runner.Catalog.Filter(kind)
	out := make([]variationJSON, 0, len(descs))
	for _, d := range descs {
		out = append(out, variationView(d, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"variations": out, "count": len(out)})
}

func (s *Server) handleVariation(w http.ResponseWriter, r *http.Request) {
	d, err := s.runner.Catalog.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody(r, string(errors.GetCode(err)), errors.UserMessage(err), nil))
		return
	}
	writeJSON(w, http.StatusOK, variationView(d, true))
}

type functionJSON struct {
	ID       string   `json:"id"`
	Requires []string `json:"requires,omitempty"`
	Init     string   `json:"init,omitempty"`
	Source   string   `json:"source,omitempty"`
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	ids := s.runner.Library.IDs()
	out := make([]functionJSON, 0, len(ids))
	for _, id := range ids {
		fn, _ := s.runner.Library.Get(id)
		out = append(out, functionJSON{ID: fn.ID, Requires: fn.Requires, Init: fn.Init})
	}
	writeJSON(w, http.StatusOK, map[string]any{"functions": out, "count": len(out)})
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	fn, err := s.runner.Library.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody(r, string(errors.GetCode(err)), errors.UserMessage(err), nil))
		return
	}
	writeJSON(w, http.StatusOK, functionJSON{ID: fn.ID, Requires: fn.Requires, Init: fn.Init, Source: fn.Source})
}

type composeResponse struct {
	RequestID string          `json:"request_id"`
	Name      string          `json:"name,omitempty"`
	Kernel    *kernel.Kernel  `json:"kernel"`
	Libraries []string        `json:"libraries,omitempty"`
	Conflicts []string        `json:"conflicts,omitempty"`
	Warnings  []flame.Warning `json:"warnings,omitempty"`
	Cached    bool            `json:"cached"`
	Stats     composeStats    `json:"stats"`
}

type composeStats struct {
	Transforms  int     `json:"transforms"`
	Placements  int     `json:"placements"`
	SourceBytes int     `json:"source_bytes"`
	ElapsedMS   float64 `json:"elapsed_ms"`
}

// composeOptions reads pipeline options from the query string and the
// request's content type.
func composeOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Format:      q.Get("format"),
		Mode:        q.Get("mode"),
		SkipUnknown: true,
	}
	if opts.Format == "" {
		if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && strings.HasSuffix(mt, "xml") {
			opts.Format = string(flame.FormatXML)
		}
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"strict", &opts.Strict},
		{"validate", &opts.Validate},
		{"skip_unknown", &opts.SkipUnknown},
		{"refresh", &opts.Refresh},
	}
	for _, f := range flags {
		if v := q.Get(f.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", f.name, v)
			}
			*f.dst = b
		}
	}
	if v := q.Get("kernel"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter kernel: %q is not a boolean", v)
		}
		opts.NoEntryPoint = !b
	}
	if v := q.Get("workgroup_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter workgroup_size: %q is not an integer", v)
		}
		opts.WorkgroupSize = n
	}
	return opts, nil
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	opts, err := composeOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(body) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "empty request body"))
		return
	}
	opts.Source = body

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := composeResponse{
		RequestID: RequestID(r.Context()),
		Name:      res.Flame.Name,
		Kernel:    res.Kernel,
		Warnings:  res.Warnings,
		Cached:    res.CacheInfo.KernelHit,
		Stats: composeStats{
			Transforms:  res.Stats.Transforms,
			Placements:  res.Stats.Placements,
			SourceBytes: res.Stats.SourceBytes,
			ElapsedMS:   float64((res.Stats.LoadTime + res.Stats.ComposeTime + res.Stats.ShaderTime).Microseconds()) / 1000,
		},
	}
	if c := res.Composition; c != nil {
		resp.Libraries = c.Libraries
	}
	for _, cf := range res.Conflicts {
		resp.Conflicts = append(resp.Conflicts, cf.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
