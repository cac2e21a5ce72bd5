package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/khrees2412/jobmatch/internal/resume"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
	"go.uber.org/zap"
)

type recommendRequest struct {
	Skills []string `json:"skills" validate:"required,min=1"`
}

type matchRequest struct {
	Text string `json:"text" validate:"required"`
}

type jobsResponse struct {
	Jobs []*models.JobPosting `json:"jobs"`
}

type recommendResponse struct {
	Recommendations []models.MatchResult `json:"recommendations"`
}

type matchResponse struct {
	Profile models.CVSkillProfile `json:"profile"`
	Matches []models.MatchResult  `json:"matches"`
}

type skillsResponse struct {
	Skills []taxonomy.SkillDefinition `json:"skills"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.ListAll(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobsResponse{Jobs: jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		if HTTPStatus(err) == http.StatusNotFound {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := s.decode(r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	jobs, err := s.jobs.ListAll(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	results, err := s.engine.Recommend(req.Skills, jobs)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recommendResponse{Recommendations: results})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	text, err := s.resumeText(w, r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	jobs, err := s.jobs.ListAll(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	profile, matches := s.engine.MatchText(text, jobs)
	s.jsonResponse(w, http.StatusOK, matchResponse{Profile: profile, Matches: matches})
}

// resumeText reads the résumé from a multipart upload (field "resume") or
// from a JSON body {"text": ...}.
func (s *Server) resumeText(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req matchRequest
		if err := s.decode(r, &req); err != nil {
			return "", err
		}
		text := strings.TrimSpace(req.Text)
		if text == "" {
			return "", &ErrValidation{Field: "text", Message: "is required"}
		}
		return text, nil
	}

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return "", &ErrValidation{Field: "resume", Message: "unreadable upload"}
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		return "", &ErrValidation{Field: "resume", Message: "is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", &ErrValidation{Field: "resume", Message: "unreadable upload"}
	}
	text, err := resume.ExtractText(header.Filename, data)
	if err != nil {
		if errors.Is(err, resume.ErrUnsupportedFormat) || errors.Is(err, resume.ErrEmptyText) {
			return "", err
		}
		return "", &ErrValidation{Field: "resume", Message: err.Error()}
	}
	return text, nil
}

func (s *Server) handleSkills(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, skillsResponse{Skills: s.engine.Taxonomy().Skills()})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into v and validates it
func (s *Server) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Message: "request body is empty"}
		}
		return &ErrValidation{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	if err := s.validator.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// failure maps err to a status and writes it. Server-side failures are
// logged and their detail withheld from the client.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"message": message})
}
