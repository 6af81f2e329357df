package conf

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/picturedesk/picturedesk/internal/logger"
)

// DefaultBaseURL is the address of the local gallery backend.
const DefaultBaseURL = "http://localhost:8324/api"

// setDefaultConfig sets default values for every configuration key.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("main.name", "picturedesk")
	v.SetDefault("main.datadir", defaultDataDir())

	v.SetDefault("api.baseurl", DefaultBaseURL)

	v.SetDefault("ui.target", "#app")
	v.SetDefault("ui.document", "index.html")
	v.SetDefault("ui.output", filepath.Join("dist", "index.html"))
	v.SetDefault("ui.icons.enabled", true)
	v.SetDefault("ui.icons.packs", []string{})
	v.SetDefault("ui.routes", defaultRoutes())

	v.SetDefault("host.readyevent", "hostready")
	v.SetDefault("host.legacyalias", true)
	v.SetDefault("host.sentinel", filepath.Join(os.TempDir(), "picturedesk.ready"))
	v.SetDefault("host.signal", true)

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "")
}

// defaultRoutes is the gallery's page layout.
func defaultRoutes() []map[string]string {
	return []map[string]string{
		{"path": "/", "name": "gallery", "component": "GalleryView"},
		{"path": "/recent", "name": "recent", "component": "RecentView"},
		{"path": "/favorites", "name": "favorites", "component": "FavoritesView"},
		{"path": "/albums", "name": "albums", "component": "AlbumsView"},
		{"path": "/albums/:id", "name": "album", "component": "AlbumView"},
		{"path": "/image/:id", "name": "image", "component": "ImageView"},
		{"path": "/settings", "name": "settings", "component": "SettingsView"},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "picturedesk")
	}
	return filepath.Join(os.TempDir(), "picturedesk")
}
