package scriptbridge

import (
	"encoding/json"
	"fmt"

	"resolvemcp/internal/resolve"
)

// Every scripting object travels as an opaque gateway handle. The wrapper
// types below pin the handle together with the client and translate the
// scripting surface's method names.

type projectManager struct {
	c  *Client
	id string
}

func (p *projectManager) ProjectNames() ([]string, error) {
	return p.c.callStrings(p.id, "GetProjectListInCurrentFolder")
}

func (p *projectManager) CurrentProject() (resolve.Project, error) {
	id, err := p.c.callHandle(p.id, "GetCurrentProject")
	if err != nil {
		return nil, err
	}
	return &project{c: p.c, id: id}, nil
}

func (p *projectManager) CreateProject(name string) (resolve.Project, error) {
	id, err := p.c.callHandle(p.id, "CreateProject", name)
	if err != nil {
		return nil, err
	}
	return &project{c: p.c, id: id}, nil
}

func (p *projectManager) LoadProject(name string) (resolve.Project, error) {
	id, err := p.c.callHandle(p.id, "LoadProject", name)
	if err != nil {
		return nil, err
	}
	return &project{c: p.c, id: id}, nil
}

func (p *projectManager) SaveProject() (bool, error) {
	return p.c.callBool(p.id, "SaveProject")
}

func (p *projectManager) CloseCurrentProject() (bool, error) {
	current, err := p.c.callHandle(p.id, "GetCurrentProject")
	if err != nil {
		return false, err
	}
	return p.c.callBool(p.id, "CloseProject", handleRef(current))
}

type project struct {
	c  *Client
	id string
}

func (p *project) Name() (string, error) {
	return p.c.callString(p.id, "GetName")
}

func (p *project) Setting(key string) (string, error) {
	return p.c.callString(p.id, "GetSetting", key)
}

func (p *project) SetSetting(key, value string) (bool, error) {
	return p.c.callBool(p.id, "SetSetting", key, value)
}

func (p *project) TimelineCount() (int, error) {
	return p.c.callInt(p.id, "GetTimelineCount")
}

func (p *project) TimelineByIndex(index int) (resolve.Timeline, error) {
	id, err := p.c.callHandle(p.id, "GetTimelineByIndex", index)
	if err != nil {
		return nil, err
	}
	return &timeline{c: p.c, id: id}, nil
}

func (p *project) CurrentTimeline() (resolve.Timeline, error) {
	id, err := p.c.callHandle(p.id, "GetCurrentTimeline")
	if err != nil {
		return nil, err
	}
	return &timeline{c: p.c, id: id}, nil
}

func (p *project) SetCurrentTimeline(name string) (bool, error) {
	// The scripting surface wants the timeline object, not its name.
	count, err := p.TimelineCount()
	if err != nil {
		return false, err
	}
	for i := 1; i <= count; i++ {
		id, err := p.c.callHandle(p.id, "GetTimelineByIndex", i)
		if err != nil {
			continue
		}
		tname, err := p.c.callString(id, "GetName")
		if err != nil || tname != name {
			continue
		}
		return p.c.callBool(p.id, "SetCurrentTimeline", handleRef(id))
	}
	return false, &CallError{Method: "SetCurrentTimeline", Message: fmt.Sprintf("timeline %q not found", name)}
}

func (p *project) MediaPool() (resolve.MediaPool, error) {
	id, err := p.c.callHandle(p.id, "GetMediaPool")
	if err != nil {
		return nil, err
	}
	return &mediaPool{c: p.c, id: id}, nil
}

func (p *project) RenderPresets() ([]string, error) {
	return p.c.callStrings(p.id, "GetRenderPresetList")
}

func (p *project) SetRenderSettings(settings map[string]interface{}) (bool, error) {
	return p.c.callBool(p.id, "SetRenderSettings", settings)
}

func (p *project) AddRenderJob() (string, error) {
	return p.c.callString(p.id, "AddRenderJob")
}

func (p *project) StartRendering(jobIDs ...string) (bool, error) {
	args := make([]interface{}, len(jobIDs))
	for i, id := range jobIDs {
		args[i] = id
	}
	return p.c.callBool(p.id, "StartRendering", args...)
}

func (p *project) IsRenderingInProgress() (bool, error) {
	return p.c.callBool(p.id, "IsRenderingInProgress")
}

func (p *project) RenderJobStatus(jobID string) (map[string]interface{}, error) {
	return p.c.callMap(p.id, "GetRenderJobStatus", jobID)
}

func (p *project) DeleteRenderJob(jobID string) (bool, error) {
	return p.c.callBool(p.id, "DeleteRenderJob", jobID)
}

func (p *project) DeleteAllRenderJobs() (bool, error) {
	return p.c.callBool(p.id, "DeleteAllRenderJobs")
}

func (p *project) ClearRenderCache() (bool, error) {
	return p.c.callBool(p.id, "DeleteAllCachedFiles")
}

type timeline struct {
	c  *Client
	id string
}

func (t *timeline) Name() (string, error) {
	return t.c.callString(t.id, "GetName")
}

func (t *timeline) StartFrame() (int, error) {
	return t.c.callInt(t.id, "GetStartFrame")
}

func (t *timeline) EndFrame() (int, error) {
	return t.c.callInt(t.id, "GetEndFrame")
}

func (t *timeline) TrackCount(trackType string) (int, error) {
	return t.c.callInt(t.id, "GetTrackCount", trackType)
}

func (t *timeline) ItemsInTrack(trackType string, index int) ([]resolve.TimelineItem, error) {
	ids, err := t.c.callHandles(t.id, "GetItemListInTrack", trackType, index)
	if err != nil {
		return nil, err
	}
	items := make([]resolve.TimelineItem, len(ids))
	for i, id := range ids {
		items[i] = &timelineItem{c: t.c, id: id}
	}
	return items, nil
}

func (t *timeline) AddMarker(frame int, color, name, note string, duration int) (bool, error) {
	return t.c.callBool(t.id, "AddMarker", frame, color, name, note, duration)
}

func (t *timeline) Markers() (map[int]resolve.Marker, error) {
	resp, err := t.c.invoke(t.id, "GetMarkers")
	if err != nil {
		return nil, err
	}
	// The scripting surface keys markers by frame number; JSON object keys
	// arrive as strings.
	raw := map[string]resolve.Marker{}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &raw); err != nil {
			return nil, fmt.Errorf("GetMarkers returned unexpected shape: %w", err)
		}
	}
	markers := make(map[int]resolve.Marker, len(raw))
	for key, m := range raw {
		var frame int
		if _, err := fmt.Sscanf(key, "%d", &frame); err != nil {
			continue
		}
		markers[frame] = m
	}
	return markers, nil
}

func (t *timeline) DeleteMarkerAtFrame(frame int) (bool, error) {
	return t.c.callBool(t.id, "DeleteMarkerAtFrame", frame)
}

func (t *timeline) CurrentTimecode() (string, error) {
	return t.c.callString(t.id, "GetCurrentTimecode")
}

func (t *timeline) SetCurrentTimecode(timecode string) (bool, error) {
	return t.c.callBool(t.id, "SetCurrentTimecode", timecode)
}

func (t *timeline) AddTrack(trackType, subType string) (bool, error) {
	if subType == "" {
		return t.c.callBool(t.id, "AddTrack", trackType)
	}
	return t.c.callBool(t.id, "AddTrack", trackType, subType)
}

func (t *timeline) CurrentVideoItem() (resolve.TimelineItem, error) {
	id, err := t.c.callHandle(t.id, "GetCurrentVideoItem")
	if err != nil {
		return nil, err
	}
	return &timelineItem{c: t.c, id: id}, nil
}

func (t *timeline) ApplyGradeFromDRX(path string, gradeMode int, items ...resolve.TimelineItem) (bool, error) {
	refs := make([]interface{}, 0, len(items)+2)
	refs = append(refs, path, gradeMode)
	for _, item := range items {
		ti, ok := item.(*timelineItem)
		if !ok {
			return false, fmt.Errorf("ApplyGradeFromDRX: foreign timeline item %T", item)
		}
		refs = append(refs, handleRef(ti.id))
	}
	return t.c.callBool(t.id, "ApplyGradeFromDRX", refs...)
}

type timelineItem struct {
	c  *Client
	id string
}

func (i *timelineItem) Name() (string, error) {
	return i.c.callString(i.id, "GetName")
}

func (i *timelineItem) UniqueID() (string, error) {
	return i.c.callString(i.id, "GetUniqueId")
}

func (i *timelineItem) Start() (int, error) {
	return i.c.callInt(i.id, "GetStart")
}

func (i *timelineItem) End() (int, error) {
	return i.c.callInt(i.id, "GetEnd")
}

func (i *timelineItem) MediaType() (string, error) {
	return i.c.callString(i.id, "GetMediaType")
}

func (i *timelineItem) Property(name string) (interface{}, error) {
	return i.c.callValue(i.id, "GetProperty", name)
}

func (i *timelineItem) SetProperty(name string, value interface{}) (bool, error) {
	return i.c.callBool(i.id, "SetProperty", name, value)
}

func (i *timelineItem) SetPropertyAtFrame(name string, value interface{}, frame int) (bool, error) {
	return i.c.callBool(i.id, "SetProperty", name, value, frame)
}

func (i *timelineItem) FusionCompCount() (int, error) {
	return i.c.callInt(i.id, "GetFusionCompCount")
}

func (i *timelineItem) FusionCompByIndex(index int) (resolve.FusionComp, error) {
	id, err := i.c.callHandle(i.id, "GetFusionCompByIndex", index)
	if err != nil {
		return nil, err
	}
	return &fusionComp{c: i.c, id: id}, nil
}

func (i *timelineItem) AddFusionComp() (resolve.FusionComp, error) {
	id, err := i.c.callHandle(i.id, "AddFusionComp")
	if err != nil {
		return nil, err
	}
	return &fusionComp{c: i.c, id: id}, nil
}

func (i *timelineItem) Keyframes(property string) (map[int]interface{}, error) {
	resp, err := i.c.invoke(i.id, "GetKeyframes", property)
	if err != nil {
		return nil, err
	}
	// Keyframes come back keyed by frame number; JSON object keys arrive as
	// strings, same as markers.
	raw := map[string]interface{}{}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &raw); err != nil {
			return nil, fmt.Errorf("GetKeyframes returned unexpected shape: %w", err)
		}
	}
	frames := make(map[int]interface{}, len(raw))
	for key, v := range raw {
		var frame int
		if _, err := fmt.Sscanf(key, "%d", &frame); err != nil {
			continue
		}
		frames[frame] = v
	}
	return frames, nil
}

func (i *timelineItem) DeleteKeyframe(property string, frame int) (bool, error) {
	return i.c.callBool(i.id, "DeleteKeyframe", property, frame)
}

func (i *timelineItem) SetKeyframeInterpolation(property string, frame, mode int) (bool, error) {
	return i.c.callBool(i.id, "SetKeyframeInterpolation", property, frame, mode)
}

func (i *timelineItem) EnableKeyframes(mode string) (bool, error) {
	return i.c.callBool(i.id, "EnableKeyframes", mode)
}

func (i *timelineItem) ApplyLUT(nodeIndex int, lutPath string) (bool, error) {
	return i.c.callBool(i.id, "SetLUT", nodeIndex, lutPath)
}

func (i *timelineItem) NodeLabel(nodeIndex int) (string, error) {
	return i.c.callString(i.id, "GetNodeLabel", nodeIndex)
}

func (i *timelineItem) SetNodeLabel(nodeIndex int, label string) (bool, error) {
	return i.c.callBool(i.id, "SetNodeLabel", nodeIndex, label)
}

func (i *timelineItem) AddVersion(name string, versionType int) (bool, error) {
	return i.c.callBool(i.id, "AddVersion", name, versionType)
}

func (i *timelineItem) LoadVersionByName(name string, versionType int) (bool, error) {
	return i.c.callBool(i.id, "LoadVersionByName", name, versionType)
}

func (i *timelineItem) CopyGrades(targets ...resolve.TimelineItem) (bool, error) {
	refs := make([]interface{}, 0, len(targets))
	for _, target := range targets {
		ti, ok := target.(*timelineItem)
		if !ok {
			return false, fmt.Errorf("CopyGrades: foreign timeline item %T", target)
		}
		refs = append(refs, handleRef(ti.id))
	}
	return i.c.callBool(i.id, "CopyGrades", refs...)
}

type fusionComp struct {
	c  *Client
	id string
}

func (f *fusionComp) Name() (string, error) {
	return f.c.callString(f.id, "GetName")
}

func (f *fusionComp) ToolNames() ([]string, error) {
	return f.c.callStrings(f.id, "GetToolList")
}

func (f *fusionComp) AddTool(toolType string, posX, posY float64) (resolve.FusionTool, error) {
	id, err := f.c.callHandle(f.id, "AddTool", toolType, posX, posY)
	if err != nil {
		return nil, err
	}
	return &fusionTool{c: f.c, id: id}, nil
}

func (f *fusionComp) ToolByName(name string) (resolve.FusionTool, error) {
	id, err := f.c.callHandle(f.id, "FindTool", name)
	if err != nil {
		return nil, err
	}
	return &fusionTool{c: f.c, id: id}, nil
}

func (f *fusionComp) RemoveTool(name string) (bool, error) {
	id, err := f.c.callHandle(f.id, "FindTool", name)
	if err != nil {
		return false, err
	}
	_, err = f.c.invoke(id, "Delete")
	if err != nil {
		return false, err
	}
	return true, nil
}

func (f *fusionComp) ConnectTools(source, sourceOutput, target, targetInput string) (bool, error) {
	return f.c.callBool(f.id, "ConnectTools", source, sourceOutput, target, targetInput)
}

type fusionTool struct {
	c  *Client
	id string
}

func (t *fusionTool) Name() (string, error) {
	return t.c.callString(t.id, "GetAttrs.TOOLS_Name")
}

func (t *fusionTool) Type() (string, error) {
	return t.c.callString(t.id, "GetAttrs.TOOLS_RegID")
}

func (t *fusionTool) SetInput(name string, value interface{}) (bool, error) {
	return t.c.callBool(t.id, "SetInput", name, value)
}

func (t *fusionTool) Input(name string) (interface{}, error) {
	return t.c.callValue(t.id, "GetInput", name)
}

type mediaPool struct {
	c  *Client
	id string
}

func (m *mediaPool) RootFolder() (resolve.Folder, error) {
	id, err := m.c.callHandle(m.id, "GetRootFolder")
	if err != nil {
		return nil, err
	}
	return &folder{c: m.c, id: id}, nil
}

func (m *mediaPool) CurrentFolder() (resolve.Folder, error) {
	id, err := m.c.callHandle(m.id, "GetCurrentFolder")
	if err != nil {
		return nil, err
	}
	return &folder{c: m.c, id: id}, nil
}

func (m *mediaPool) SetCurrentFolder(f resolve.Folder) (bool, error) {
	bf, ok := f.(*folder)
	if !ok {
		return false, fmt.Errorf("SetCurrentFolder: foreign folder %T", f)
	}
	return m.c.callBool(m.id, "SetCurrentFolder", handleRef(bf.id))
}

func (m *mediaPool) AddSubFolder(parent resolve.Folder, name string) (resolve.Folder, error) {
	bf, ok := parent.(*folder)
	if !ok {
		return nil, fmt.Errorf("AddSubFolder: foreign folder %T", parent)
	}
	id, err := m.c.callHandle(m.id, "AddSubFolder", handleRef(bf.id), name)
	if err != nil {
		return nil, err
	}
	return &folder{c: m.c, id: id}, nil
}

func (m *mediaPool) ImportMedia(paths []string) ([]resolve.MediaPoolItem, error) {
	ids, err := m.c.callHandles(m.id, "ImportMedia", paths)
	if err != nil {
		return nil, err
	}
	items := make([]resolve.MediaPoolItem, len(ids))
	for i, id := range ids {
		items[i] = &mediaPoolItem{c: m.c, id: id}
	}
	return items, nil
}

func (m *mediaPool) CreateEmptyTimeline(name string) (resolve.Timeline, error) {
	id, err := m.c.callHandle(m.id, "CreateEmptyTimeline", name)
	if err != nil {
		return nil, err
	}
	return &timeline{c: m.c, id: id}, nil
}

func (m *mediaPool) AppendToTimeline(items []resolve.MediaPoolItem) (bool, error) {
	refs, err := clipRefs("AppendToTimeline", items)
	if err != nil {
		return false, err
	}
	return m.c.callBool(m.id, "AppendToTimeline", refs)
}

func (m *mediaPool) MoveClips(items []resolve.MediaPoolItem, target resolve.Folder) (bool, error) {
	bf, ok := target.(*folder)
	if !ok {
		return false, fmt.Errorf("MoveClips: foreign folder %T", target)
	}
	refs, err := clipRefs("MoveClips", items)
	if err != nil {
		return false, err
	}
	return m.c.callBool(m.id, "MoveClips", refs, handleRef(bf.id))
}

func (m *mediaPool) DeleteClips(items []resolve.MediaPoolItem) (bool, error) {
	refs, err := clipRefs("DeleteClips", items)
	if err != nil {
		return false, err
	}
	return m.c.callBool(m.id, "DeleteClips", refs)
}

func (m *mediaPool) GenerateOptimizedMedia(items []resolve.MediaPoolItem) (bool, error) {
	refs, err := clipRefs("GenerateOptimizedMedia", items)
	if err != nil {
		return false, err
	}
	return m.c.callBool(m.id, "GenerateOptimizedMedia", refs)
}

func (m *mediaPool) DeleteOptimizedMedia(items []resolve.MediaPoolItem) (bool, error) {
	refs, err := clipRefs("DeleteOptimizedMedia", items)
	if err != nil {
		return false, err
	}
	return m.c.callBool(m.id, "DeleteOptimizedMedia", refs)
}

func clipRefs(method string, items []resolve.MediaPoolItem) ([]interface{}, error) {
	refs := make([]interface{}, 0, len(items))
	for _, item := range items {
		mi, ok := item.(*mediaPoolItem)
		if !ok {
			return nil, fmt.Errorf("%s: foreign media pool item %T", method, item)
		}
		refs = append(refs, handleRef(mi.id))
	}
	return refs, nil
}

type folder struct {
	c  *Client
	id string
}

func (f *folder) Name() (string, error) {
	return f.c.callString(f.id, "GetName")
}

func (f *folder) Clips() ([]resolve.MediaPoolItem, error) {
	ids, err := f.c.callHandles(f.id, "GetClipList")
	if err != nil {
		return nil, err
	}
	clips := make([]resolve.MediaPoolItem, len(ids))
	for i, id := range ids {
		clips[i] = &mediaPoolItem{c: f.c, id: id}
	}
	return clips, nil
}

func (f *folder) SubFolders() ([]resolve.Folder, error) {
	ids, err := f.c.callHandles(f.id, "GetSubFolderList")
	if err != nil {
		return nil, err
	}
	folders := make([]resolve.Folder, len(ids))
	for i, id := range ids {
		folders[i] = &folder{c: f.c, id: id}
	}
	return folders, nil
}

type mediaPoolItem struct {
	c  *Client
	id string
}

func (i *mediaPoolItem) Name() (string, error) {
	return i.c.callString(i.id, "GetName")
}

func (i *mediaPoolItem) ClipProperty(name string) (string, error) {
	return i.c.callString(i.id, "GetClipProperty", name)
}

func (i *mediaPoolItem) SetClipProperty(name, value string) (bool, error) {
	return i.c.callBool(i.id, "SetClipProperty", name, value)
}

func (i *mediaPoolItem) LinkProxyMedia(path string) (bool, error) {
	return i.c.callBool(i.id, "LinkProxyMedia", path)
}

func (i *mediaPoolItem) UnlinkProxyMedia() (bool, error) {
	return i.c.callBool(i.id, "UnlinkProxyMedia")
}
