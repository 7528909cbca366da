package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/famtree/pkg/addmember"
	"github.com/matzehuels/famtree/pkg/buildinfo"
	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

// handlePresets handles GET /v1/presets.
func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"presets": connector.Presets(),
		"default": s.cfg.Preset,
	})
}

// handleStyle handles GET and POST /v1/styles/{preset}. A POST body is a
// JSON style override merged onto the preset.
func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	preset := chi.URLParam(r, "preset")
	if err := pipeline.ValidatePreset(preset); err != nil {
		writeError(w, err)
		return
	}

	var body []byte
	if r.Method == http.MethodPost {
		var err error
		if body, err = io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxBodyBytes)); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
			return
		}
	}

	ctx := r.Context()
	key := s.runner.Keyer.StyleKey(preset, cache.Hash(body))
	if data, hit, err := s.runner.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "style")
		w.Header().Set("X-Cache", "hit")
		writeRaw(w, "application/json", data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "style")

	var o *connector.Override
	if len(body) > 0 {
		var err error
		if o, err = connector.ParseOverride(body, family.FormatJSON); err != nil {
			writeError(w, err)
			return
		}
	}
	data, err := json.Marshal(connector.Resolve(preset, o))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.runner.Cache.Set(ctx, key, data, cache.TTLStyle); err != nil {
		s.logger.Warn("cache style", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "style", len(data))
	}
	w.Header().Set("X-Cache", "miss")
	writeRaw(w, "application/json", data)
}

// handleRender handles POST /v1/render. The body is a JSON tree; query
// parameters select format, preset, viz type, viewport and detail.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := family.Read(r.Body, family.FormatJSON)
	if err != nil {
		writeError(w, bodyError(err))
		return
	}
	opts.Tree = root

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	format := opts.Formats[0]
	cached := "miss"
	if res.CacheInfo.RenderHit {
		cached = "hit"
	}
	w.Header().Set("X-Cache", cached)
	w.Header().Set("X-Tree-Hash", res.TreeHash)
	writeRaw(w, pipeline.ContentTypes[format], res.Artifacts[format])
}

func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Preset:     q.Get("preset"),
		VizType:    q.Get("viz"),
		AvatarBase: s.cfg.AvatarBase,
		LinkBase:   s.cfg.LinkBase,
		Logger:     s.logger.With("request_id", RequestIDFrom(r.Context())),
	}
	if opts.Preset == "" {
		opts.Preset = s.cfg.Preset
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height, "scale": &opts.Scale} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
		}
		*dst = f
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid detailed: %q", v)
		}
		opts.Detailed = b
	}
	opts.NoAvatars = q.Get("avatars") == "false"
	return opts, nil
}

type addMemberRequest struct {
	Tree    *family.Member    `json:"tree"`
	Payload addmember.Payload `json:"payload"`
}

type addMemberResponse struct {
	Tree   *family.Member `json:"tree"`
	Member *family.Member `json:"member"`
}

// handleAddMember handles POST /v1/members: it applies an add-member
// payload to a tree and returns the updated tree.
func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, bodyError(err))
		return
	}
	if err := family.Validate(req.Tree); err != nil {
		writeError(w, err)
		return
	}
	m, err := addmember.Apply(req.Tree, req.Payload)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("member added",
		"request_id", RequestIDFrom(r.Context()),
		"anchor", req.Payload.AnchorID,
		"relation", req.Payload.Relation,
		"mode", req.Payload.Type)
	writeJSON(w, http.StatusCreated, addMemberResponse{Tree: req.Tree, Member: m})
}

// bodyError classifies a body decoding failure.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
	}
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeRaw(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the status mapped from the
// error code.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(code),
	})
}
