package admin

import (
	"github.com/cryptologowall/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetBackups 备份文件列表
func (h *Handler) GetBackups(c *gin.Context) {
	files, err := h.BackupService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, files)
}

// CreateBackup 发起备份，队列可用时异步执行
func (h *Handler) CreateBackup(c *gin.Context) {
	name, queued, err := h.BackupService.Request(c.Request.Context(), actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, backupErrorRules)
		return
	}
	response.Success(c, gin.H{
		"queued": queued,
		"name":   name,
	})
}

// DownloadBackup 下载备份文件
func (h *Handler) DownloadBackup(c *gin.Context) {
	name := c.Param("name")
	path, err := h.BackupService.Download(name, actorFromContext(c))
	if err != nil {
		respondMappedError(c, err, backupErrorRules)
		return
	}
	c.FileAttachment(path, name)
}

// DeleteBackup 删除备份文件
func (h *Handler) DeleteBackup(c *gin.Context) {
	if err := h.BackupService.Delete(c.Param("name"), actorFromContext(c)); err != nil {
		respondMappedError(c, err, backupErrorRules)
		return
	}
	response.Success(c, nil)
}
