package browse

import (
	"path"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/imageprocessor"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
)

// Entry is the read-model row for one stored file, rebuilt on every
// browse request.
type Entry struct {
	Thumb       string `json:"thumb"`
	Src         string `json:"src"`
	Path        string `json:"path"`
	IsImage     bool   `json:"is_image"`
	IsVideo     bool   `json:"is_video"`
	VisibleName string `json:"visible_filename"`
	Extension   string `json:"extension"`
}

// Classification is purely extension-based, no content sniffing.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".avi": true, ".mov": true, ".mkv": true,
	".flv": true, ".vob": true, ".ogv": true, ".ogg": true, ".drc": true,
	".qt": true, ".wmv": true, ".mpg": true, ".mp2": true, ".mpeg": true,
	".mpe": true, ".mpv": true, ".m2v": true, ".m4v": true, ".svi": true,
	".3gp": true, ".3g2": true, ".m4p": true, ".amv": true, ".rm": true,
	".rmvb": true,
}

// IsImagePath reports whether the path has an image extension.
func IsImagePath(p string) bool {
	return imageExtensions[strings.ToLower(path.Ext(p))]
}

// IsVideoPath reports whether the path has a video extension.
func IsVideoPath(p string) bool {
	return videoExtensions[strings.ToLower(path.Ext(p))]
}

// ListFiles recursively enumerates the files under the user's scoped
// upload path and builds their listing entries. An empty scope is an
// access-control violation and yields an empty listing.
func ListFiles(scope string, cfg *config.Settings, backend storage.Backend) []Entry {
	if scope == "" {
		log.Error("[Browse] User scope is empty, refusing to list files")
		return nil
	}

	var entries []Entry
	for _, p := range walkFiles(backend, path.Join(cfg.UploadPath, scope)) {
		entries = append(entries, buildEntry(p, cfg, backend))
	}
	return entries
}

// walkFiles walks the backend's directory tree depth-first. Hidden
// entries, thumbnail renditions and Thumbs.db droppings are skipped.
// Branches that fail to list are skipped, not fatal.
func walkFiles(backend storage.Backend, dir string) []string {
	dirs, files, err := backend.ListDir(dir)
	if err != nil {
		log.Debugf("[Browse] Skipping unlistable branch %s: %v", dir, err)
		return nil
	}

	var paths []string
	for _, name := range files {
		if strings.HasPrefix(name, ".") || name == "Thumbs.db" {
			continue
		}
		stem := strings.TrimSuffix(name, path.Ext(name))
		if strings.HasSuffix(stem, imageprocessor.ThumbSuffix) {
			continue
		}
		paths = append(paths, path.Join(dir, name))
	}
	for _, name := range dirs {
		if strings.HasPrefix(name, ".") {
			continue
		}
		paths = append(paths, walkFiles(backend, path.Join(dir, name))...)
	}
	return paths
}

func buildEntry(p string, cfg *config.Settings, backend storage.Backend) Entry {
	src := backend.URL(p)

	var thumb string
	if IsImagePath(p) {
		thumb = backend.URL(imageprocessor.ThumbPath(p, cfg.OutputFormat))
	} else {
		thumb = IconFor(p, cfg)
	}

	visible := path.Base(p)
	if runes := []rune(visible); len(runes) > 30 {
		visible = string(runes[:29]) + "..."
	}

	return Entry{
		Thumb:       thumb,
		Src:         src,
		Path:        p,
		IsImage:     IsImagePath(p),
		IsVideo:     IsVideoPath(p),
		VisibleName: visible,
		Extension:   path.Ext(p),
	}
}

// FilterQuery keeps entries whose path contains the query,
// case-insensitively.
func FilterQuery(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Path), query) {
			out = append(out, e)
		}
	}
	return out
}

// FilterType keeps entries matching the type filter ("image" or "video").
// Any other value leaves the listing unfiltered.
func FilterType(entries []Entry, fileType string) []Entry {
	switch fileType {
	case "image":
		var out []Entry
		for _, e := range entries {
			if e.IsImage {
				out = append(out, e)
			}
		}
		return out
	case "video":
		var out []Entry
		for _, e := range entries {
			if e.IsVideo {
				out = append(out, e)
			}
		}
		return out
	default:
		return entries
	}
}

// Dirs returns the distinct parent directories of the listed entries,
// reverse-sorted for presentation.
func Dirs(entries []Entry) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, e := range entries {
		d := path.Dir(e.Src)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	return dirs
}

// DeleteFile removes a stored file (and its thumbnail for images) if the
// target lies within the user's scoped upload directory. The outcome is a
// plain boolean so no filesystem structure leaks to the client.
func DeleteFile(scope, target string, cfg *config.Settings, backend storage.Backend) bool {
	if scope == "" {
		log.Error("[Browse] User scope is empty, refusing to delete")
		return false
	}

	// Collapse ".." segments before the scope check so a target like
	// "uploads/alice/../bob/pic.png" cannot smuggle a foreign path past
	// the prefix match.
	target = path.Clean(target)

	// Prefix match with trailing separator so that scope "alice" does not
	// authorize "alice2/...".
	scopedDir := path.Join(cfg.UploadPath, scope) + "/"
	if path.IsAbs(target) || !strings.HasPrefix(target, scopedDir) {
		log.Errorf("[Browse] Delete target outside user scope %s", scopedDir)
		return false
	}

	if IsImagePath(target) {
		if err := backend.Delete(imageprocessor.ThumbPath(target, cfg.OutputFormat)); err != nil {
			log.Errorf("[Browse] Failed to delete thumbnail for %s: %v", target, err)
			return false
		}
	}

	if err := backend.Delete(target); err != nil {
		log.Errorf("[Browse] Failed to delete %s: %v", target, err)
		return false
	}
	return true
}
