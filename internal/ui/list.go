package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/shared"
)

var (
	_ list.Item = videoItem{}
)

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := fmt.Sprintf("%s • %s views", i.video.Duration, shared.FormatViews(i.video.Views))
	if i.video.Trending {
		desc = fmt.Sprintf("%s • trending", desc)
	}
	return desc
}

func videoItems(videos []models.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}
