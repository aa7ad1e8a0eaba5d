package config

import "strings"

// UploadPolicy - ограничения для фотографий гостей (загрузка и WhatsApp медиа)
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
	ImageQuality int
}

func (c *Config) UploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxSize:      c.Upload.MaxSize,
		AllowedTypes: c.Upload.AllowedTypes,
		ImageQuality: c.Upload.ImageQuality,
	}
}

// Allows проверяет MIME тип (параметры вроде "; charset" отбрасываются)
func (p UploadPolicy) Allows(contentType string) bool {
	ct := strings.TrimSpace(strings.ToLower(strings.SplitN(contentType, ";", 2)[0]))
	if len(p.AllowedTypes) == 0 {
		return strings.HasPrefix(ct, "image/")
	}
	for _, t := range p.AllowedTypes {
		if t == ct {
			return true
		}
	}
	return false
}
