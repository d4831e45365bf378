package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerBrowserHandlers(r *Registry) {
	r.Register("get_browser_item", false, getBrowserItem)
	r.Register("get_browser_tree", false, getBrowserTree)
	r.Register("get_browser_items_at_path", false, getBrowserItemsAtPath)
	r.Register("list_loadable_devices", false, listLoadableDevices)
	r.Register("search_loadable_devices", false, searchLoadableDevices)
	r.Register("load_browser_item", true, loadBrowserItem)
	r.Register("load_device", true, loadDevice)
	r.Register("load_simpler_with_sample", true, loadSampleIntoSampler)
	r.Register("load_sampler_with_sample", true, loadSampleIntoSampler)
}

func encodeBrowserNode(n *daw.BrowserNode) map[string]any {
	children := make([]map[string]any, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, encodeBrowserNode(c))
	}
	return map[string]any{
		"name":        n.Name,
		"uri":         n.URI,
		"is_folder":   n.IsFolder,
		"is_device":   n.IsDevice,
		"is_loadable": n.IsLoadable,
		"children":    children,
	}
}

func getBrowserItem(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	uri := optString(p, "uri", "")
	path := optString(p, "path", "")
	node, err := song.GetBrowserItem(uri, path)
	if err != nil {
		return nil, err
	}
	return encodeBrowserNode(node), nil
}

func getBrowserTree(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	category := optString(p, "category_type", "all")
	node, err := song.GetBrowserTree(category)
	if err != nil {
		return nil, err
	}
	return encodeBrowserNode(node), nil
}

func getBrowserItemsAtPath(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	path, err := reqString(p, "path")
	if err != nil {
		return nil, err
	}
	nodes, err := song.GetBrowserItemsAtPath(path)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, encodeBrowserNode(n))
	}
	return map[string]any{"items": items}, nil
}

func listLoadableDevices(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	category := optString(p, "category", "")
	maxItems := optInt(p, "max_items", 50)
	nodes, err := song.ListLoadableDevices(category, maxItems)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, encodeBrowserNode(n))
	}
	return map[string]any{"devices": items}, nil
}

func searchLoadableDevices(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	query, err := reqString(p, "query")
	if err != nil {
		return nil, err
	}
	category := optString(p, "category", "")
	maxItems := optInt(p, "max_items", 50)
	nodes, err := song.SearchLoadableDevices(query, category, maxItems)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, encodeBrowserNode(n))
	}
	return map[string]any{"devices": items}, nil
}

func loadBrowserItem(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	itemURI, err := reqString(p, "item_uri")
	if err != nil {
		return nil, err
	}
	clipIdx := optIntPtr(p, "clip_index")

	result, err := song.LoadBrowserItem(trackIdx, itemURI, clipIdx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"device_index": result.DeviceIndex, "name": result.Name}, nil
}

func loadDevice(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceURI, err := reqString(p, "device_uri")
	if err != nil {
		return nil, err
	}
	deviceSlot := optInt(p, "device_slot", -1)

	result, err := song.LoadDevice(trackIdx, deviceURI, deviceSlot)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"device_index":    result.DeviceIndex,
		"name":            result.Name,
		"parameter_names": result.ParameterNames,
	}, nil
}

func loadSampleIntoSampler(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	filePath, err := reqString(p, "file_path")
	if err != nil {
		return nil, err
	}
	samplerURI := optString(p, "sampler_uri", "")
	deviceSlot := optInt(p, "device_slot", -1)

	result, err := song.LoadSampleIntoSampler(trackIdx, filePath, samplerURI, deviceSlot)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"device_index": result.DeviceIndex,
		"loaded":       result.Loaded,
		"warning":      result.Warning,
	}, nil
}
