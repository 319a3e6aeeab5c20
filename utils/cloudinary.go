package utils

import (
	"fmt"

	"haulaway/services/storage"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/spf13/viper"
)

// LoadCloudinaryConfig loads the Cloudinary credentials from the YAML file,
// falling back to environment variables when no file is present.
func LoadCloudinaryConfig() {
	viper.SetConfigFile("utils/cloudinary.yaml")
	viper.SetConfigType("yaml")

	viper.SetDefault("cloudinary.cloudName", viper.GetString("CLOUDINARY_CLOUD_NAME"))
	viper.SetDefault("cloudinary.apiKey", viper.GetString("CLOUDINARY_API_KEY"))
	viper.SetDefault("cloudinary.apiSecret", viper.GetString("CLOUDINARY_API_SECRET"))

	if err := viper.ReadInConfig(); err != nil {
		GetLogger().Warn("no cloudinary.yaml found, using environment credentials")
	}
}

// Cloudinary initializes and returns a Cloudinary-based StorageService using Viper.
func Cloudinary() (storage.StorageService, error) {
	LoadCloudinaryConfig()

	cloudName := viper.GetString("cloudinary.cloudName")
	apiKey := viper.GetString("cloudinary.apiKey")
	apiSecret := viper.GetString("cloudinary.apiSecret")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}

	return storage.NewStorageService(cld, cloudName), nil
}
