package util

import (
	"encoding/json"
	"fmt"
	"os"

	"reinocalc/internal/logger"
)

type Secrets struct {
	Db      DbSecrets      `json:"db"`
	SES     SesSecrets     `json:"ses"`
	Typebot TypebotSecrets `json:"typebot"`
	// Supabase JWT secret used to decode optional user tokens on submit.
	Jwt string `json:"jwt"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

type SesSecrets struct {
	Region      string `json:"region"`
	FromEmail   string `json:"fromEmail"`
	NotifyEmail string `json:"notifyEmail"`
}

type TypebotSecrets struct {
	ApiHost  string `json:"apiHost"`
	PublicID string `json:"publicId"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func (t DbSecrets) IsConfigured() bool {
	return t.Host != "" && t.Database != ""
}

func (s SesSecrets) IsConfigured() bool {
	return s.Region != "" && s.FromEmail != ""
}

func SecretsFile() string {
	switch os.Getenv(logger.EnvVar) {
	case "dev":
		return "secrets-dev.json"
	case "test":
		return "secrets-test.json"
	default:
		return "/go/src/app/secrets.json"
	}
}

func LoadSecrets() (*Secrets, error) {
	return LoadSecretsFile(SecretsFile())
}

func LoadSecretsFile(secretsFile string) (*Secrets, error) {
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", secretsFile, err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal secrets: %w", err)
	}

	return &secrets, nil
}
