package productcontroller

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// uploadRoot is where product/category assets land; gin serves it
// under /uploads.
func uploadRoot() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "/var/www/electrosaida/uploads"
}

// saveUpload stores file under uploadRoot/subdir with a unique name and
// returns the public URL path.
func saveUpload(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	saveDir := filepath.Join(uploadRoot(), subdir)
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", err
	}

	return fmt.Sprintf("/uploads/%s/%s", subdir, filename), nil
}
