package middleware

import (
    "time"

    "github.com/gin-contrib/cors"
    "github.com/gin-gonic/gin"
)

// CORS allows the listed origins; "*" allows any origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
    cfg := cors.Config{
        AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
        AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
        ExposeHeaders:    []string{"Content-Disposition", "X-Fields-Applied", "X-Fields-Skipped"},
        AllowCredentials: true,
        MaxAge:           12 * time.Hour,
    }
    for _, o := range origins {
        if o == "*" {
            cfg.AllowAllOrigins = true
            cfg.AllowCredentials = false
            return cors.New(cfg)
        }
    }
    cfg.AllowOrigins = origins
    if len(origins) == 0 { cfg.AllowOrigins = []string{"http://localhost:3000"} }
    return cors.New(cfg)
}
