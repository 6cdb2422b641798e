package config

import "github.com/joho/godotenv"

// LoadEnv loads a .env file from the working directory into the environment.
// Callers treat os.IsNotExist errors as "no .env file".
func LoadEnv() error {
	return godotenv.Load()
}
