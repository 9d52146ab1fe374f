package api

import "github.com/tunetui/tunetui/domain"

type thumbnailDTO struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type songDTO struct {
	Name       string         `json:"name"`
	Artist     string         `json:"artist"`
	VideoID    string         `json:"videoId"`
	Thumbnails []thumbnailDTO `json:"thumbnails"`
	Duration   string         `json:"duration"`
	Album      string         `json:"album,omitempty"`
}

func toDomainSongs(dtos []songDTO) []domain.Song {
	songs := make([]domain.Song, len(dtos))
	for i, dto := range dtos {
		songs[i] = toDomainSong(dto)
	}
	return songs
}

func toDomainSong(dto songDTO) domain.Song {
	thumbs := make([]domain.Thumbnail, len(dto.Thumbnails))
	for i, t := range dto.Thumbnails {
		thumbs[i] = domain.Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height}
	}
	return domain.Song{
		Name:       dto.Name,
		Artist:     dto.Artist,
		VideoID:    dto.VideoID,
		Thumbnails: thumbs,
		Duration:   dto.Duration,
		Album:      dto.Album,
	}
}
