package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avashisht/ttsbox/internal/config"
	"github.com/avashisht/ttsbox/internal/models"
	"github.com/avashisht/ttsbox/internal/repositories"
	"github.com/avashisht/ttsbox/internal/utils"
)

// multipartMemory is the in-memory buffer for multipart parsing; larger
// uploads spill to temp files.
const multipartMemory = 32 << 20

// POST /upload
// UploadAudio godoc
// @Summary Upload one or more audio files
// @Description Single upload uses the "audio" form field and returns the file URL; multi upload uses the "files" field and returns the created records.
// @Tags Audio
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file false "Single file"
// @Param files formData file false "Multiple files"
// @Param category formData string false "Category (sound_effect, voice, song, text, json, other)"
// @Param name formData string false "Custom name override"
// @Param placeholder formData string false "Placeholder override"
// @Param volume formData number false "Playback volume (0.0-1.0)"
// @Success 200 {object} models.FileRecord
// @Failure 400 {object} map[string]string
// @Router /upload [post]
func UploadAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.Envs.MaxUploadMB<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid file upload form")
		return
	}

	category := models.NormalizeCategory(r.FormValue("category"))
	customName := r.FormValue("name")
	placeholder := r.FormValue("placeholder")
	volume := models.ParseVolume(r.FormValue("volume"))

	// Single file upload (used by the React frontend).
	if audioFiles := r.MultipartForm.File["audio"]; len(audioFiles) > 0 {
		header := audioFiles[0]
		if header.Filename == "" {
			utils.Error(w, http.StatusBadRequest, "No selected file")
			return
		}

		rec, path, err := storeUploadedFile(header, customName, placeholder, category, volume)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := repositories.Metadata.Append(rec); err != nil {
			os.Remove(path)
			utils.Error(w, http.StatusInternalServerError, "Failed to save metadata")
			return
		}

		log.Printf("Uploaded single file: %s (placeholder=%s, volume=%.2f)", rec.Filename(), rec.Placeholder, rec.Volume)
		utils.JSONResponse(w, http.StatusOK, map[string]string{"url": rec.URL})
		return
	}

	// Multiple file upload (used by the HTML frontend).
	if formFiles := r.MultipartForm.File["files"]; len(formFiles) > 0 {
		allEmpty := true
		for _, header := range formFiles {
			if header.Filename != "" {
				allEmpty = false
				break
			}
		}
		if allEmpty {
			utils.Error(w, http.StatusBadRequest, "No selected files")
			return
		}

		var (
			records []models.FileRecord
			paths   []string
		)
		cleanup := func() {
			for _, p := range paths {
				os.Remove(p)
			}
		}

		for _, header := range formFiles {
			if header.Filename == "" {
				continue
			}
			rec, path, err := storeUploadedFile(header, customName, placeholder, category, volume)
			if err != nil {
				cleanup()
				utils.Error(w, http.StatusInternalServerError, err.Error())
				return
			}
			records = append(records, rec)
			paths = append(paths, path)
		}

		// One metadata flush for the whole request.
		if err := repositories.Metadata.Append(records...); err != nil {
			cleanup()
			utils.Error(w, http.StatusInternalServerError, "Failed to save metadata")
			return
		}

		log.Printf("Uploaded %d files", len(records))
		utils.JSONResponse(w, http.StatusOK, records)
		return
	}

	utils.Error(w, http.StatusBadRequest, "No files provided")
}

// storeUploadedFile allocates a collision-free on-disk name, persists the
// uploaded bytes and builds the metadata record. The caller is responsible
// for appending the record and for removing the file if that fails.
func storeUploadedFile(header *multipart.FileHeader, customName, placeholder, category string, volume float64) (models.FileRecord, string, error) {
	originalFilename := repositories.SanitizeFilename(header.Filename)
	baseName, extension := splitExtension(originalFilename)
	if customName != "" {
		baseName = customName
	}

	uploadDir := config.Envs.UploadDir
	if err := os.MkdirAll(uploadDir, 0o750); err != nil {
		return models.FileRecord{}, "", fmt.Errorf("create upload directory: %w", err)
	}

	filename, err := repositories.UniqueFilename(baseName, extension, uploadDir)
	if err != nil {
		return models.FileRecord{}, "", err
	}
	path := filepath.Join(uploadDir, filename)

	size, err := writeMultipartFile(header, path)
	if err != nil {
		return models.FileRecord{}, "", err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if placeholder == "" {
		placeholder = models.DefaultPlaceholder(baseName)
	}

	rec := models.FileRecord{
		ID:       uuid.NewString(),
		Name:     baseName,
		Type:     contentType,
		Size:     size,
		Category: category,
		Source: models.Source{
			Type: models.SourceLocal,
			Metadata: &models.SourceMetadata{
				Name: filename,
				Type: contentType,
				Size: size,
			},
		},
		Date:        time.Now().Format(time.RFC3339),
		Volume:      volume,
		Placeholder: placeholder,
		URL:         "/audio/" + filename,
	}
	return rec, path, nil
}

func writeMultipartFile(header *multipart.FileHeader, path string) (int64, error) {
	src, err := header.Open()
	if err != nil {
		return 0, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	size, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	return size, nil
}

func splitExtension(filename string) (base, extension string) {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[:i], filename[i+1:]
	}
	return filename, ""
}

// volumeValue decodes a volume that arrives either as a JSON number or as a
// numeric string; older frontends send "0.5".
type volumeValue float64

func (v *volumeValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*v = volumeValue(parsed)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = volumeValue(f)
	return nil
}

// PATCH /audio/{id}
// UpdateAudioMetadata godoc
// @Summary Update metadata for an audio file
// @Description Applies any of name/placeholder/volume. A name change renames the backing file and updates the record URL.
// @Tags Audio
// @Accept json
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} models.FileRecord
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /audio/{id} [patch]
func UpdateAudioMetadata(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Name        *string      `json:"name"`
		Placeholder *string      `json:"placeholder"`
		Volume      *volumeValue `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "No data provided")
		return
	}

	rec, ok := repositories.Metadata.Get(id)
	if !ok {
		log.Printf("Audio not found for ID: %s", id)
		utils.Error(w, http.StatusNotFound, "Audio not found")
		return
	}

	updated := rec
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Placeholder != nil {
		updated.Placeholder = *req.Placeholder
	}
	if req.Volume != nil {
		// No clamping here, unlike upload: the frontend sends values it
		// already validated.
		updated.Volume = float64(*req.Volume)
	}

	// If the name changed, rename the backing file.
	var renamedFrom, renamedTo string
	if req.Name != nil && *req.Name != rec.Name {
		currentFilename := rec.Filename()
		_, extension := splitExtension(currentFilename)

		uploadDir := config.Envs.UploadDir
		newFilename, err := repositories.UniqueFilename(*req.Name, extension, uploadDir)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to update audio metadata")
			return
		}

		oldPath := filepath.Join(uploadDir, currentFilename)
		newPath := filepath.Join(uploadDir, newFilename)
		if _, err := os.Stat(oldPath); err == nil {
			if err := os.Rename(oldPath, newPath); err != nil {
				utils.Error(w, http.StatusInternalServerError, "Failed to update audio metadata")
				return
			}
			renamedFrom, renamedTo = oldPath, newPath
			log.Printf("Renamed file from %s to %s", currentFilename, newFilename)
		} else {
			log.Printf("File %s not found for renaming", currentFilename)
		}

		updated.URL = "/audio/" + newFilename
		if updated.Source.Metadata != nil {
			updated.Source.Metadata.Name = newFilename
		}
	}

	if err := repositories.Metadata.Replace(id, updated); err != nil {
		// Roll back the staged rename so file and metadata stay in step.
		if renamedFrom != "" {
			_ = os.Rename(renamedTo, renamedFrom)
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to update audio metadata")
		return
	}

	utils.JSONResponse(w, http.StatusOK, updated)
}

// GET /audio/list
// ListAudio godoc
// @Summary List all stored audio files with their metadata
// @Tags Audio
// @Produce json
// @Success 200 {array} models.FileRecord
// @Router /audio/list [get]
func ListAudio(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, repositories.Metadata.List())
}

// GET /audio/{filename}
// ServeAudio godoc
// @Summary Serve a stored file by filename
// @Tags Audio
// @Produce octet-stream
// @Param filename path string true "Filename on disk"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /audio/{filename} [get]
func ServeAudio(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(r.PathValue("filename"))
	path := filepath.Join(config.Envs.UploadDir, filename)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		utils.Error(w, http.StatusNotFound, "File not found")
		return
	}

	http.ServeFile(w, r, path)
}

// DELETE /audio/{filename}
// DeleteAudio godoc
// @Summary Delete a stored file and its metadata entry
// @Tags Audio
// @Produce json
// @Param filename path string true "Filename on disk"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /audio/{filename} [delete]
func DeleteAudio(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(r.PathValue("filename"))
	path := filepath.Join(config.Envs.UploadDir, filename)

	if _, err := os.Stat(path); err != nil {
		log.Printf("File not found for deletion: %s", filename)
		utils.Error(w, http.StatusNotFound, "File not found")
		return
	}

	// Park the file aside first so the metadata commit can be rolled back
	// without having lost the bytes.
	staged := path + ".removing"
	if err := os.Rename(path, staged); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	if err := repositories.Metadata.RemoveByURL("/audio/" + filename); err != nil {
		_ = os.Rename(staged, path)
		utils.Error(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	_ = os.Remove(staged)
	log.Printf("Deleted file: %s", filename)
	utils.JSONResponse(w, http.StatusOK, map[string]string{"message": "File deleted"})
}

// PUT /audio/{filename}
// ReplaceAudio godoc
// @Summary Replace an existing file's bytes while preserving its URL and id
// @Description Refreshes type, size, category, source and date on the matching metadata entry. Name, placeholder, volume, id and url stay untouched.
// @Tags Audio
// @Accept multipart/form-data
// @Produce json
// @Param filename path string true "Filename on disk"
// @Param audio formData file true "Replacement file"
// @Param category formData string false "New category"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /audio/{filename} [put]
func ReplaceAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.Envs.MaxUploadMB<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid file upload form")
		return
	}

	audioFiles := r.MultipartForm.File["audio"]
	if len(audioFiles) == 0 {
		utils.Error(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	header := audioFiles[0]
	if header.Filename == "" {
		utils.Error(w, http.StatusBadRequest, "No file selected")
		return
	}

	filename := filepath.Base(r.PathValue("filename"))
	path := filepath.Join(config.Envs.UploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		log.Printf("File not found for replacement: %s", filename)
		utils.Error(w, http.StatusNotFound, "File not found")
		return
	}

	// Stage the new bytes next to the target and swap them in before the
	// metadata commit, parking the old bytes so a failed commit can restore
	// them. Same stage-then-commit order as delete.
	staged := path + ".staged"
	size, err := writeMultipartFile(header, staged)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to replace file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	category := models.NormalizeCategory(r.FormValue("category"))
	date := time.Now().Format(time.RFC3339)

	backup := path + ".replacing"
	if err := os.Rename(path, backup); err != nil {
		os.Remove(staged)
		utils.Error(w, http.StatusInternalServerError, "Failed to replace file")
		return
	}
	if err := os.Rename(staged, path); err != nil {
		_ = os.Rename(backup, path)
		os.Remove(staged)
		utils.Error(w, http.StatusInternalServerError, "Failed to replace file")
		return
	}

	_, err = repositories.Metadata.UpdateByURL("/audio/"+filename, func(rec *models.FileRecord) {
		rec.Type = contentType
		rec.Size = size
		rec.Category = category
		rec.Source = models.Source{
			Type: models.SourceLocal,
			Metadata: &models.SourceMetadata{
				Name: filename,
				Type: contentType,
				Size: size,
			},
		}
		rec.Date = date
	})
	if err != nil {
		_ = os.Rename(backup, path)
		utils.Error(w, http.StatusInternalServerError, "Failed to replace file")
		return
	}

	_ = os.Remove(backup)

	log.Printf("Replaced file: %s", filename)
	utils.JSONResponse(w, http.StatusOK, map[string]string{"url": "/audio/" + filename})
}
