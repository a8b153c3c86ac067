package api

import (
	"fmt"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/avashisht/ttsbox/docs"
	"github.com/avashisht/ttsbox/internal/api/handlers"
	"github.com/avashisht/ttsbox/internal/api/middleware"
	"github.com/avashisht/ttsbox/internal/config"
	"github.com/rs/cors"
)

func SetupRouter() http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// File storage. The literal /audio/list pattern wins over the
	// {filename} wildcard, so the listing never shadows a stored file.
	mux.HandleFunc("POST /upload", handlers.UploadAudio)
	mux.HandleFunc("GET /audio/list", handlers.ListAudio)
	mux.HandleFunc("GET /audio/{filename}", handlers.ServeAudio)
	mux.HandleFunc("DELETE /audio/{filename}", handlers.DeleteAudio)
	mux.HandleFunc("PUT /audio/{filename}", handlers.ReplaceAudio)
	mux.HandleFunc("PATCH /audio/{id}", handlers.UpdateAudioMetadata)

	// Text-to-speech.
	mux.HandleFunc("POST /gtts", handlers.TextToSpeech)
	mux.HandleFunc("GET /gtts/voices", handlers.ListVoices)
	mux.HandleFunc("POST /purge", handlers.PurgeFiles)

	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
