package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerSceneHandlers(r *Registry) {
	r.Register("create_scene", true, createScene)
	r.Register("delete_scene", true, deleteScene)
	r.Register("duplicate_scene", true, duplicateScene)
	r.Register("fire_scene", true, fireScene)
	r.Register("stop_scene", true, stopScene)
	r.Register("fire_scene_by_name", true, fireSceneByName)
}

func createScene(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	index := optInt(p, "index", -1)
	name := optString(p, "name", "")
	idx, err := song.CreateScene(index, name)
	if err != nil {
		return nil, err
	}
	return map[string]any{"index": idx}, nil
}

func deleteScene(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "index")
	if err != nil {
		return nil, err
	}
	if err := song.DeleteScene(idx); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}

func duplicateScene(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "index")
	if err != nil {
		return nil, err
	}
	newIdx, err := song.DuplicateScene(idx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"index": newIdx}, nil
}

func fireScene(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "index")
	if err != nil {
		return nil, err
	}
	if err := song.FireScene(idx); err != nil {
		return nil, err
	}
	return map[string]any{"fired": true}, nil
}

func stopScene(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "index")
	if err != nil {
		return nil, err
	}
	if err := song.StopScene(idx); err != nil {
		return nil, err
	}
	return map[string]any{"stopped": true}, nil
}

func fireSceneByName(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	pattern, err := reqString(p, "pattern")
	if err != nil {
		return nil, err
	}
	mode := matchMode(p, "match_mode")
	firstOnly := optBool(p, "first_only", true)

	matches, err := song.FireSceneByName(pattern, mode, firstOnly)
	if err != nil {
		return nil, err
	}
	return map[string]any{"fired_scenes": matches}, nil
}
