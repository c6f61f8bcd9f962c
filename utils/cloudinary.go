package utils

import (
	"fmt"

	"medibook/services/storage"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/spf13/viper"
)

// LoadCloudinaryConfig loads the Cloudinary configuration from its own YAML
// file on a dedicated viper instance so it cannot clobber the app config.
func LoadCloudinaryConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile("utils/cloudinary.yaml")
	v.SetConfigType("yaml")

	// Optionally, set fallback defaults.
	v.SetDefault("cloudinary.cloudName", "default_cloud_name")
	v.SetDefault("cloudinary.apiKey", "default_api_key")
	v.SetDefault("cloudinary.apiSecret", "default_api_secret")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading cloudinary config file: %w", err)
	}
	return v, nil
}

// Cloudinary initializes and returns a Cloudinary-based StorageService using Viper.
func Cloudinary() (storage.StorageService, error) {
	v, err := LoadCloudinaryConfig()
	if err != nil {
		return nil, err
	}

	cloudName := v.GetString("cloudinary.cloudName")
	apiKey := v.GetString("cloudinary.apiKey")
	apiSecret := v.GetString("cloudinary.apiSecret")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}

	// Create the storage service using our Cloudinary client and cloud name.
	storageSvc := storage.NewStorageService(cld, cloudName, apiSecret)
	return storageSvc, nil
}
