package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/avashisht/ttsbox/internal/config"
	"github.com/avashisht/ttsbox/internal/repositories"
	"github.com/avashisht/ttsbox/internal/tts"
	"github.com/avashisht/ttsbox/internal/utils"
)

// Conversion target: mono, CD sample rate, what the playback frontend expects.
const (
	wavChannels   = 1
	wavSampleRate = 44100
)

// Synth and Converter are assigned at startup (and swapped for fakes in
// tests), mirroring how the store global is wired.
var (
	Synth     tts.Synthesizer
	Converter tts.Converter
)

// POST /gtts
// TextToSpeech godoc
// @Summary Convert text to speech
// @Description Synthesizes the text with the configured engine, converts it to mono 44100 Hz WAV and returns it base64-encoded with its duration.
// @Tags TTS
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /gtts [post]
func TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		Voice    string `json:"voice"`
		Language string `json:"language"`
	}
	// A missing or malformed body falls through to the empty-text check;
	// the client error message is the same either way.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Text == "" {
		utils.JSONResponse(w, http.StatusBadRequest, map[string]string{"message": "Text is required"})
		return
	}

	voice := tts.VoiceByID(req.Voice)
	log.Printf("Processing TTS request: voice=%s lang=%s tld=%s", voice.ID, voice.Language, voice.TLD)

	ctx, cancel := context.WithTimeout(r.Context(), config.Envs.TTSTimeout)
	defer cancel()

	mp3Data, err := Synth.Synthesize(ctx, req.Text, voice)
	if err != nil {
		log.Printf("TTS synthesis failed: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}

	wavData, err := Converter.ToWAV(ctx, mp3Data, wavChannels, wavSampleRate)
	if err != nil {
		log.Printf("Audio conversion failed: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}

	duration, err := tts.WAVDuration(wavData)
	if err != nil {
		log.Printf("WAV duration parsing failed: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}

	log.Printf("Generated audio: WAV, %.2fs, voice=%s", duration, voice.ID)
	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"audioBase64": base64.StdEncoding.EncodeToString(wavData),
		"duration":    duration,
		"mimeType":    "audio/wav",
	})
}

// GET /gtts/voices
// ListVoices godoc
// @Summary List all supported voices
// @Tags TTS
// @Produce json
// @Success 200 {object} map[string][]models.Voice
// @Router /gtts/voices [get]
func ListVoices(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, map[string]any{"voices": tts.Voices()})
}

// POST /purge
// PurgeFiles godoc
// @Summary Delete every stored file and reset the metadata list
// @Description Removes all files in the upload directory (except the configs subdirectory itself), all files inside configs, and writes an empty metadata array.
// @Tags TTS
// @Produce json
// @Success 200 {object} map[string]string
// @Router /purge [post]
func PurgeFiles(w http.ResponseWriter, r *http.Request) {
	uploadDir := config.Envs.UploadDir

	if err := removeFilesIn(uploadDir); err != nil {
		log.Printf("Error purging files: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to purge files")
		return
	}
	if _, err := os.Stat(config.Envs.ConfigsDir); err == nil {
		if err := removeFilesIn(config.Envs.ConfigsDir); err != nil {
			log.Printf("Error purging config files: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to purge files")
			return
		}
	}

	if err := repositories.Metadata.Reset(); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to purge files")
		return
	}

	log.Println("All files purged successfully")
	utils.JSONResponse(w, http.StatusOK, map[string]string{"message": "All files purged successfully"})
}

// removeFilesIn deletes the regular files directly inside dir, leaving
// subdirectories (the configs dir in particular) in place.
func removeFilesIn(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
		log.Printf("Deleted file: %s", entry.Name())
	}
	return nil
}
