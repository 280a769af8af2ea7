package browse

import (
	"path"
	"strings"

	"github.com/editorfox/EditorFox/internal/pkg/config"
)

// builtinIconRules maps extensions to display icons for non-image files.
// Matched from top to bottom, first match wins.
func builtinIconRules(iconsPath string) []config.IconRule {
	base := iconsPath + "/file-icons"
	videoExts := make([]string, 0, len(videoExtensions))
	for ext := range videoExtensions {
		videoExts = append(videoExts, ext)
	}
	return []config.IconRule{
		{Extensions: []string{".pdf"}, Icon: base + "/pdf.png"},
		{Extensions: []string{".doc", ".docx", ".odt"}, Icon: base + "/doc.png"},
		{Extensions: []string{".txt"}, Icon: base + "/txt.png"},
		{Extensions: []string{".ppt", ".pptx"}, Icon: base + "/ppt.png"},
		{Extensions: []string{".xls", ".xlsx"}, Icon: base + "/xls.png"},
		{Extensions: videoExts, Icon: base + "/video.png"},
	}
}

// IconFor returns the icon path for a non-image file. Project-level
// overrides are tried before the built-in rules; a generic file icon is
// the catch-all.
func IconFor(name string, cfg *config.Settings) string {
	ext := strings.ToLower(path.Ext(name))

	rules := append(append([]config.IconRule{}, cfg.FileIconOverrides...), builtinIconRules(cfg.FileIconsPath)...)
	for _, rule := range rules {
		for _, e := range rule.Extensions {
			if ext == strings.ToLower(e) {
				return rule.Icon
			}
		}
	}
	return cfg.FileIconsPath + "/file-icons/file.png"
}
