package helpers

import (
	"os"
	"path/filepath"
)

const DataDirEnv = "HLASMLS_DIR"

var dataDirPath = ""

func SetDataDirPath(newPath string) error {
	// NOTE: when path does not exist, use GetOrInitializeDataDir
	dataDirPath = newPath
	return nil
}

func GetDataDirPath() string {
	// check if HLASMLS_DIR is set. if present, set it as the directory path
	if envPath := os.Getenv(DataDirEnv); len(envPath) != 0 && dataDirPath != envPath {
		SetDataDirPath(envPath)
	}

	if len(dataDirPath) != 0 {
		return dataDirPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		if homeEnv := os.Getenv("HOME"); len(homeEnv) != 0 {
			homeDir = homeEnv
		} else {
			homeDir = os.TempDir()
		}
	}

	return filepath.Join(homeDir, ".hlasmls")
}

func GetOrInitializeDataDir() (string, error) {
	dirPath := GetDataDirPath()
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return "", err
		}
	}

	return dirPath, nil
}
