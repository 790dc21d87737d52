package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/caffeineduck/codehub/download"
	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language"
	"github.com/caffeineduck/codehub/notice"
	"github.com/caffeineduck/codehub/share"
)

// maxBodyBytes leaves room for JSON escaping around the largest snippet.
const maxBodyBytes = 1 << 20

type languageInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Extension   string `json:"extension"`
	FileName    string `json:"file_name"`
}

type sampleResponse struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type switchRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type switchResponse struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Replaced bool   `json:"replaced"`
}

type executeRequest struct {
	Code     string   `json:"code"`
	Language string   `json:"language,omitempty"`
	Inputs   []string `json:"inputs,omitempty"`
	Timeout  string   `json:"timeout,omitempty"`
}

type executeResponse struct {
	Language   string         `json:"language"`
	Output     string         `json:"output"`
	Prompts    int            `json:"prompts"`
	Status     string         `json:"status"`
	DurationMs int64          `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
	Notice     *notice.Notice `json:"notice,omitempty"`
}

type createRunRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

type runResponse struct {
	ID         string         `json:"id"`
	Language   string         `json:"language"`
	State      string         `json:"state"`
	Prompt     string         `json:"prompt,omitempty"`
	Output     string         `json:"output"`
	Prompts    int            `json:"prompts"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	Error      string         `json:"error,omitempty"`
	Notice     *notice.Notice `json:"notice,omitempty"`
}

type inputRequest struct {
	Value string `json:"value"`
}

type shareResponse struct {
	URL string `json:"url"`
}

type decodeRequest struct {
	URL string `json:"url"`
}

type codeResponse struct {
	Code     string         `json:"code"`
	Language string         `json:"language"`
	Output   string         `json:"output,omitempty"`
	Notice   *notice.Notice `json:"notice,omitempty"`
}

type downloadRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs := language.All()
	out := make([]languageInfo, len(langs))
	for i, l := range langs {
		out[i] = languageInfo{
			Name:        l.Name(),
			DisplayName: l.DisplayName(),
			Extension:   l.Extension(),
			FileName:    download.FileName(l.Name()),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	lang, err := parseLanguage(mux.Vars(r)["lang"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sampleResponse{Language: lang.Name(), Code: lang.Sample()})
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	lang, err := parseLanguage(req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	code, replaced := language.Switch(req.Code, lang)
	writeJSON(w, http.StatusOK, switchResponse{Language: lang.Name(), Code: code, Replaced: replaced})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	lang, err := parseLanguage(req.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	timeout := s.cfg.runTimeout
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil || d <= 0 {
			writeError(w, fmt.Errorf("%w: timeout %q", errBadRequest, req.Timeout))
			return
		}
		if d < timeout || timeout <= 0 {
			timeout = d
		}
	}

	result := s.exec.Run(r.Context(), lang, req.Code,
		executor.WithTimeout(timeout),
		executor.WithInputs(req.Inputs...),
	)

	switch result.Status() {
	case "invalid":
		writeError(w, result.Error)
		return
	case "cancelled":
		// The client went away; nobody is listening.
		return
	}

	resp := executeResponse{
		Language:   lang.Name(),
		Output:     result.Output,
		Prompts:    result.Prompts,
		Status:     result.Status(),
		DurationMs: result.Duration.Milliseconds(),
	}
	status := http.StatusOK
	if result.Error != nil {
		resp.Error = result.Error.Error()
		n := noticeFor(result.Error)
		resp.Notice = &n
		status = statusFor(result.Error)
		s.logger.Warn("run failed",
			zap.String("language", lang.Name()),
			zap.String("status", resp.Status),
			zap.Error(result.Error))
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	lang, err := parseLanguage(req.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	id, session, err := s.sessions.create(s.exec, lang, req.Code,
		executor.WithSessionTimeout(s.cfg.sessionTTL))
	if err != nil {
		writeError(w, err)
		return
	}

	snap := s.waitForPause(r.Context(), session)
	writeJSON(w, http.StatusCreated, newRunResponse(id, snap))
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, ok := s.sessions.get(id)
	if !ok {
		writeError(w, fmt.Errorf("%w: %s", errRunNotFound, id))
		return
	}

	var snap executor.Snapshot
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		snap = s.waitForPause(r.Context(), session)
	} else {
		snap = session.Snapshot()
	}
	writeJSON(w, http.StatusOK, newRunResponse(id, snap))
}

func (s *Server) handleRunInput(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, ok := s.sessions.get(id)
	if !ok {
		writeError(w, fmt.Errorf("%w: %s", errRunNotFound, id))
		return
	}

	var req inputRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := session.Provide(req.Value); err != nil {
		writeError(w, err)
		return
	}

	snap := s.waitForPause(r.Context(), session)
	writeJSON(w, http.StatusOK, newRunResponse(id, snap))
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.sessions.close(id) {
		writeError(w, fmt.Errorf("%w: %s", errRunNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var data share.CodeData
	if err := decodeBody(w, r, &data); err != nil {
		writeError(w, err)
		return
	}

	link, err := share.Encode(s.shareBase(r), data)
	if s.metrics != nil {
		s.metrics.Shared("encode", err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{URL: link})
}

func (s *Server) handleShareParam(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has(share.Param) {
		writeError(w, share.ErrNotShared)
		return
	}
	data, err := share.DecodeParam(q.Get(share.Param))
	s.writeDecoded(w, data, err)
}

func (s *Server) handleShareDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	data, err := share.Decode(req.URL)
	s.writeDecoded(w, data, err)
}

func (s *Server) writeDecoded(w http.ResponseWriter, data share.CodeData, err error) {
	if s.metrics != nil {
		s.metrics.Shared("decode", err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	n := notice.CodeLoaded()
	writeJSON(w, http.StatusOK, codeResponse{
		Code:     data.Code,
		Language: data.Language,
		Output:   data.Output,
		Notice:   &n,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := download.Attach(w, req.Code, req.Language)
	if errors.Is(err, executor.ErrEmptyCode) {
		writeError(w, errEmptyDownload)
		return
	}
	if err != nil {
		s.logger.Warn("download write failed", zap.Error(err))
		return
	}
	if s.metrics != nil {
		tag := req.Language
		if _, ok := language.Lookup(tag); !ok {
			tag = "other"
		}
		s.metrics.Downloaded(tag)
	}
}

// waitForPause blocks until the run asks for input or finishes, the client
// goes away, or the wait timeout passes. It always returns the latest
// snapshot.
func (s *Server) waitForPause(ctx context.Context, session *executor.Session) executor.Snapshot {
	if s.cfg.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.waitTimeout)
		defer cancel()
	}
	snap, _ := session.Wait(ctx)
	return snap
}

func (s *Server) shareBase(r *http.Request) string {
	if s.cfg.baseURL != "" {
		return s.cfg.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

func newRunResponse(id string, snap executor.Snapshot) runResponse {
	resp := runResponse{
		ID:         id,
		Language:   snap.Language,
		State:      string(snap.State),
		Prompt:     snap.Prompt,
		Output:     snap.Output,
		Prompts:    snap.Prompts,
		DurationMs: snap.Duration.Milliseconds(),
	}
	if snap.Error != nil {
		resp.Error = snap.Error.Error()
		n := noticeFor(snap.Error)
		resp.Notice = &n
	}
	return resp
}

// parseLanguage resolves a request's language, defaulting to python.
func parseLanguage(tag string) (executor.Language, error) {
	if tag == "" {
		return language.Default(), nil
	}
	return language.Parse(tag)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: invalid json: %v", errBadRequest, err)
	}
	return nil
}
