package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/auth"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/importer"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time   // for testing, defaults to time.Now
	AllowedHosts []string           // Host headers allowed to access the server
	AllowedCIDRS []string           // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	FrontendURL  string             // origin allowed for CORS and post-login redirects
	RedisClient  *redis.Client      // Redis client connection
	Sessions     *store.Manager     // per-user session registry
	Auth         *auth.Service      // OAuth flow and session tokens
	Importer     *importer.Importer // browser-history bulk importer
	SearchLimit  int                // max results returned by search/ranking queries
}
