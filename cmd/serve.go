package cmd

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tagwise/internal/apihandlers"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run Tagwise as an HTTP API server",
	Long: `Starts an HTTP server exposing classification and batch lifecycle
operations via a RESTful API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default() // Includes logger and recovery middleware

		apiHandler := apihandlers.NewAPIHandler(appInstance)

		v1 := router.Group("/api/v1")
		{
			batchGroup := v1.Group("/batches")
			{
				batchGroup.POST("", apiHandler.StartBatchHandler)
				batchGroup.GET("", apiHandler.ListBatchesHandler)
				batchGroup.GET("/:id", apiHandler.GetBatchHandler)
				batchGroup.DELETE("/:id", apiHandler.StopBatchHandler)
			}
			v1.POST("/classify", apiHandler.ClassifyHandler)
		}

		router.GET("/health", func(c *gin.Context) {
			if err := appInstance.PostStore.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		listenAddr := serveAddr
		if listenAddr == "" {
			listenAddr = appInstance.Config.API.Address
		}
		log.Infof("Starting Tagwise API server on %s", listenAddr)

		if err := router.Run(listenAddr); err != nil {
			log.Errorf("Failed to run API server: %v", err)
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides api.address from config)")
}
