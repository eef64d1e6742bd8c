package routes

import (
	"socialeats_server/controllers"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes registers presigned URL routes under `/api/s3`.
func RegisterS3Routes(router *mux.Router, s3Service *services.S3Service) {
	controller := &controllers.S3Controller{S3Service: s3Service}

	s3Router := router.PathPrefix("/api/s3").Subrouter()
	s3Router.HandleFunc("/upload-url", controller.GenerateUploadURLHandler).Methods("POST")
	s3Router.HandleFunc("/read-url", controller.GenerateReadURLHandler).Methods("POST")
}
