package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

type uploadInput struct {
	Data     string `json:"data"`      // base64 data URL or raw base64
	PublicID string `json:"public_id"` // optional
}

// UploadImage handles base64 image upload to Cloudinary
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}

	if in.PublicID == "" {
		in.PublicID = utils.GenerateShortToken(12)
	}

	url := storage.UploadBase64Image(in.Data, in.PublicID)
	if url == "" {
		ctx.StopWithJSON(http.StatusBadGateway, iris.Map{"error": "upload failed"})
		return
	}
	ctx.JSON(iris.Map{"url": url})
}
