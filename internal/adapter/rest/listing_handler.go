package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/media"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/query"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

const (
	imagesField     = "images"
	maxImages       = 10
	multipartMemory = 8 << 20
	maxJSONBody     = 1 << 20
)

type ListingService interface {
	List(ctx context.Context, params query.Params) ([]*domain.Listing, error)
	Search(ctx context.Context, req query.SearchRequest) ([]*domain.Listing, error)
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Create(ctx context.Context, ownerID string, in usecase.CreateListingInput, files []media.StagedFile) (*domain.Listing, error)
	Update(ctx context.Context, id, ownerID string, in usecase.UpdateListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, id, ownerID string) error
	AddImages(ctx context.Context, id, ownerID string, files []media.StagedFile) (*domain.Listing, error)
}

// Stager writes uploaded files to the staging area.
type Stager interface {
	media.Releaser
	Stage(originalName, contentType string, r io.Reader) (media.StagedFile, error)
}

type ListingHandler struct {
	svc            ListingService
	staging        Stager
	maxUploadBytes int64
	logger         *logger.Logger
}

func NewListingHandler(svc ListingService, staging Stager, maxUploadBytes int64, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		svc:            svc,
		staging:        staging,
		maxUploadBytes: maxUploadBytes,
		logger:         log.Named("ListingHandler"),
	}
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseParams(r.URL.Query())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	listings, err := h.svc.List(r.Context(), params)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondList(w, "pgs", listings)
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := query.DecodeSearchRequest(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	listings, err := h.svc.Search(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondList(w, "pgs", listings)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "pg", listing)
}

// Create accepts a multipart form: scalar fields, JSON documents in string
// fields, and up to maxImages files under "images".
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())

	form, err := h.parseMultipart(w, r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	defer form.RemoveAll()

	in, err := createInputFromForm(form.Value)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	files, err := h.stageFiles(form.File[imagesField])
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	listing, err := h.svc.Create(r.Context(), ownerID, in, files)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusCreated, "pg", listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())

	var in usecase.UpdateListingInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	listing, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), ownerID, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "pg", listing)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), ownerID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())

	form, err := h.parseMultipart(w, r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	defer form.RemoveAll()

	headers := form.File[imagesField]
	if len(headers) == 0 {
		respondError(w, r, h.logger, domain.InputError("no images provided"))
		return
	}
	files, err := h.stageFiles(headers)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	listing, err := h.svc.AddImages(r.Context(), chi.URLParam(r, "id"), ownerID, files)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "pg", listing)
}

func (h *ListingHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, domain.InputError("invalid multipart form: %v", err)
	}
	return r.MultipartForm, nil
}

// stageFiles copies every part into the staging area. On failure the files
// staged so far are released and none are returned.
func (h *ListingHandler) stageFiles(headers []*multipart.FileHeader) ([]media.StagedFile, error) {
	if len(headers) > maxImages {
		return nil, domain.InputError("at most %d images may be uploaded at once", maxImages)
	}
	staged := make([]media.StagedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := h.stageOne(fh)
		if err != nil {
			media.ReleaseAll(h.staging, staged, h.logger)
			return nil, err
		}
		staged = append(staged, f)
	}
	return staged, nil
}

func (h *ListingHandler) stageOne(fh *multipart.FileHeader) (media.StagedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return media.StagedFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()
	return h.staging.Stage(fh.Filename, fh.Header.Get("Content-Type"), src)
}

func createInputFromForm(values map[string][]string) (usecase.CreateListingInput, error) {
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	food, err := formList(values["food"])
	if err != nil {
		return usecase.CreateListingInput{}, err
	}
	return usecase.CreateListingInput{
		Name:             get("name"),
		PgType:           get("pgType"),
		Food:             food,
		PgAmenities:      get("pgAmenities"),
		PgRules:          get("pgRules"),
		Sharing:          get("sharing"),
		Address:          get("address"),
		PgContactInfo:    get("pgContactInfo"),
		Location:         get("location"),
		NoticePeriodDays: get("noticePeriodDays"),
		SecurityDeposit:  get("securityDeposit"),
	}, nil
}

// formList accepts either repeated fields or a single JSON array.
func formList(vals []string) ([]string, error) {
	if len(vals) == 1 && strings.HasPrefix(strings.TrimSpace(vals[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(vals[0]), &out); err != nil {
			return nil, domain.InputError("food must be a list of strings")
		}
		return out, nil
	}
	return vals, nil
}

// decodeJSON decodes a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, domain.ErrInputFormat) {
			return err
		}
		return domain.InputError("invalid request body: %v", err)
	}
	if dec.More() {
		return domain.InputError("request body must contain a single JSON object")
	}
	return nil
}
