package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/san-kum/fluidbg/internal/fluid"
	"github.com/san-kum/fluidbg/internal/frame"
	"github.com/san-kum/fluidbg/internal/render"
)

type FrameResponse struct {
	Status         string  `json:"status"`
	Frame          string  `json:"frame"`
	Timestamp      float64 `json:"timestamp"`
	NextFrameDelay int     `json:"next_frame_delay,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ConfigResponse struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Device         string  `json:"device"`
	AnimationSpeed float64 `json:"animation_speed"`
	ColorScheme    string  `json:"color_scheme"`
}

// respondJSON encodes before writing the header so an encode failure can
// still become a 500 error body.
func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{Status: "error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		s.log.Debug("failed to write response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Status: "error", Message: message})
}

// now returns wall-clock seconds scaled into frame time.
func (s *Server) now(scale float64) float64 {
	return float64(s.clock().UnixNano()) / 1e9 * scale
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	info := s.source.Info()
	s.respondJSON(w, http.StatusOK, ConfigResponse{
		Width:          info.Width,
		Height:         info.Height,
		Device:         info.Device,
		AnimationSpeed: s.cfg.AnimationSpeed,
		ColorScheme:    info.Scheme,
	})
}

// requestOptions reads the optional scheme and format query parameters.
func requestOptions(r *http.Request, def frame.Format) (string, frame.Format, error) {
	scheme := r.URL.Query().Get("scheme")
	format := def
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := frame.ParseFormat(v)
		if err != nil {
			return "", "", err
		}
		format = f
	}
	return scheme, format, nil
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	t := s.now(s.cfg.TimeScale)
	if v := r.URL.Query().Get("t"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid t %q", v))
			return
		}
		t = parsed
	}

	scheme, format, err := requestOptions(r, frame.PNG)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderFrame(w, t, scheme, format, 0)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	scheme, format, err := requestOptions(r, frame.JPEG)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderFrame(w, s.now(s.cfg.StreamTimeScale), scheme, format, s.cfg.StreamDelayMs)
}

func (s *Server) renderFrame(w http.ResponseWriter, t float64, scheme string, format frame.Format, delayMs int) {
	uri, err := s.source.FrameDataURI(t, scheme, format)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, FrameResponse{
		Status:         "success",
		Frame:          uri,
		Timestamp:      t,
		NextFrameDelay: delayMs,
	})
}

// renderError maps bad scheme, format or time requests to 400 and anything else
// to 500.
func (s *Server) renderError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, render.ErrUnsupportedScheme) || errors.Is(err, frame.ErrUnsupportedFormat) || errors.Is(err, fluid.ErrInvalidTime) {
		status = http.StatusBadRequest
	} else {
		s.log.Error("frame generation failed", zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}
