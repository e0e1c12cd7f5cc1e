package session

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the credentials and endpoints needed to run a session.
type Config struct {
	PublicKey   string
	AssistantID string
	BackendURL  string
}

const defaultBackendURL = "http://localhost:8000"

// LoadConfig reads configuration from the environment, loading a .env file
// first when one is present. The public key and assistant id must be set;
// the backend URL falls back to a local development server.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	config := Config{
		PublicKey:   os.Getenv("TRAVEL_PUBLIC_KEY"),
		AssistantID: os.Getenv("TRAVEL_ASSISTANT_ID"),
		BackendURL:  os.Getenv("TRAVEL_BACKEND_URL"),
	}
	if config.PublicKey == "" {
		return Config{}, fmt.Errorf("TRAVEL_PUBLIC_KEY is not set")
	}
	if config.AssistantID == "" {
		return Config{}, fmt.Errorf("TRAVEL_ASSISTANT_ID is not set")
	}
	if config.BackendURL == "" {
		config.BackendURL = defaultBackendURL
	}
	return config, nil
}
