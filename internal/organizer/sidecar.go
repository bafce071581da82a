package organizer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"shoebox/internal/metadata"
)

// sidecarData is the usable subset of a Google Takeout sidecar.
type sidecarData struct {
	Taken    *time.Time
	Created  *time.Time
	Location *metadata.Location
}

type sidecarFile struct {
	PhotoTakenTime struct {
		Timestamp string `json:"timestamp"`
	} `json:"photoTakenTime"`
	CreationTime struct {
		Timestamp string `json:"timestamp"`
	} `json:"creationTime"`
	GeoData struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Altitude  float64 `json:"altitude"`
	} `json:"geoData"`
}

// findSidecar locates the metadata JSON next to a media file. Takeout
// truncates long sidecar names ("IMG.jpg.supplemental-me.json"), so after
// the exact name a prefix glob is tried.
func findSidecar(mediaPath string) (string, bool) {
	exact := mediaPath + ".json"
	if _, err := os.Stat(exact); err == nil {
		return exact, true
	}
	matches, err := filepath.Glob(mediaPath + ".*.json")
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

func parseSidecar(path string) (sidecarData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return sidecarData{}, fmt.Errorf("read sidecar: %w", err)
	}
	var file sidecarFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return sidecarData{}, fmt.Errorf("parse sidecar: %w", err)
	}

	var data sidecarData
	data.Taken = parseSidecarTimestamp(file.PhotoTakenTime.Timestamp)
	data.Created = parseSidecarTimestamp(file.CreationTime.Timestamp)
	if file.GeoData.Latitude != 0 || file.GeoData.Longitude != 0 {
		data.Location = &metadata.Location{
			Latitude:  file.GeoData.Latitude,
			Longitude: file.GeoData.Longitude,
			Altitude:  file.GeoData.Altitude,
		}
	}
	return data, nil
}

func parseSidecarTimestamp(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds <= 0 {
		return nil
	}
	t := time.Unix(seconds, 0)
	return &t
}
