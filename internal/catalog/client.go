package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
)

// Track 是歌曲目录查询返回的一条匹配结果。
// 字段名沿用历史线上格式（spotify_id实际承载iTunes的trackId）。
type Track struct {
	SpotifyID  string `json:"spotify_id"`
	Cancion    string `json:"cancion"`
	Artista    string `json:"artista"`
	Album      string `json:"album"`
	PortadaURL string `json:"portada_url"`
	PreviewURL string `json:"preview_url"`
	DuracionMS int    `json:"duracion_ms"`
}

// itunesResponse 对应iTunes Search API的响应结构
type itunesResponse struct {
	Results []struct {
		TrackID         int64  `json:"trackId"`
		TrackName       string `json:"trackName"`
		ArtistName      string `json:"artistName"`
		CollectionName  string `json:"collectionName"`
		ArtworkURL100   string `json:"artworkUrl100"`
		PreviewURL      string `json:"previewUrl"`
		TrackTimeMillis int    `json:"trackTimeMillis"`
	} `json:"results"`
}

// Client 封装对外部歌曲目录（iTunes Search API）的查询。
type Client struct {
	http    *http.Client
	baseURL string
	country string
	limit   int
}

// NewClient 构建歌曲目录客户端，超时从配置读取
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		country: cfg.Country,
		limit:   cfg.Limit,
	}
}

// Buscar 按关键词查询歌曲目录，最多返回limit条结果。
// 过短的关键词直接返回空列表。
// 网络或解析失败同样返回空列表（fails-closed）：
// 目录查询只是辅助输入，失败不应阻断点歌流程。
func (c *Client) Buscar(ctx context.Context, term string) []Track {
	if len(strings.TrimSpace(term)) < 2 {
		return []Track{}
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("country", c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		logging.Logger.WithError(err).Warn("构造歌曲目录请求失败")
		return []Track{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.Logger.WithError(err).Warn("歌曲目录查询失败")
		return []Track{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Logger.WithField("status", resp.StatusCode).Warn("歌曲目录返回非200状态")
		return []Track{}
	}

	var data itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logging.Logger.WithError(err).Warn("解析歌曲目录响应失败")
		return []Track{}
	}

	tracks := make([]Track, 0, len(data.Results))
	for _, r := range data.Results {
		tracks = append(tracks, Track{
			SpotifyID:  strconv.FormatInt(r.TrackID, 10),
			Cancion:    r.TrackName,
			Artista:    r.ArtistName,
			Album:      r.CollectionName,
			// iTunes只给100x100的封面，换成大图
			PortadaURL: strings.Replace(r.ArtworkURL100, "100x100", "300x300", 1),
			PreviewURL: r.PreviewURL,
			DuracionMS: r.TrackTimeMillis,
		})
		if len(tracks) >= c.limit {
			break
		}
	}
	return tracks
}
