// Package resolvetest provides an in-memory fake of the resolve capability
// interfaces for tests. The fake records page switches and scripting calls
// and lets tests inject failures at any point of the object graph.
package resolvetest

import (
	"fmt"
	"sort"
	"sync"

	"resolvemcp/internal/resolve"
)

// Host is a scriptable fake resolve.Host.
type Host struct {
	mu sync.Mutex

	Product string
	Ver     string
	Page    string
	Alive   bool

	// PageSwitches records every OpenPage call in order.
	PageSwitches []string

	// RefusePages lists pages OpenPage refuses (returns false, no error),
	// matching how Resolve itself reports a failed switch.
	RefusePages map[string]bool

	// OpenPageErr, CurrentPageErr inject hard faults.
	OpenPageErr    error
	CurrentPageErr error

	PM *ProjectManager

	Closed bool
}

// NewHost returns a live fake positioned on the edit page with one open
// project containing one timeline.
func NewHost() *Host {
	project := &Project{
		ProjectName: "Test Project",
		Settings:    map[string]string{},
		Pool:        NewMediaPool(),
	}
	timeline := &Timeline{
		TimelineName: "Timeline 1",
		Start:        0,
		End:          86400,
		MarkerMap:    map[int]resolve.Marker{},
		Tracks:       map[string][][]*TimelineItem{"video": {{}}, "audio": {{}}},
	}
	project.Timelines = []*Timeline{timeline}
	project.Current = timeline
	project.Pool.Owner = project

	return &Host{
		Product: "DaVinci Resolve",
		Ver:     "19.1.4",
		Page:    resolve.PageEdit,
		Alive:   true,
		PM: &ProjectManager{
			Projects: map[string]*Project{project.ProjectName: project},
			Current:  project,
		},
	}
}

func (h *Host) ProductName() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.Alive {
		return "", fmt.Errorf("scripting gateway unreachable")
	}
	return h.Product, nil
}

func (h *Host) Version() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Ver, nil
}

func (h *Host) CurrentPage() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.CurrentPageErr != nil {
		return "", h.CurrentPageErr
	}
	return h.Page, nil
}

func (h *Host) OpenPage(name string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.PageSwitches = append(h.PageSwitches, name)
	if h.OpenPageErr != nil {
		return false, h.OpenPageErr
	}
	if h.RefusePages[name] {
		return false, nil
	}
	h.Page = name
	return true, nil
}

func (h *Host) IsAlive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Alive
}

// SetAlive flips the liveness flag, simulating Resolve quitting or coming back.
func (h *Host) SetAlive(alive bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Alive = alive
}

func (h *Host) ProjectManager() (resolve.ProjectManager, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.Alive {
		return nil, fmt.Errorf("scripting gateway unreachable")
	}
	if h.PM == nil {
		return nil, fmt.Errorf("project manager not available")
	}
	return h.PM, nil
}

func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Closed = true
	return nil
}

// ProjectManager is a fake resolve.ProjectManager.
type ProjectManager struct {
	mu       sync.Mutex
	Projects map[string]*Project
	Current  *Project
	Err      error
}

func (p *ProjectManager) ProjectNames() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	names := make([]string, 0, len(p.Projects))
	for name := range p.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *ProjectManager) CurrentProject() (resolve.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Current == nil {
		return nil, fmt.Errorf("no project currently open")
	}
	return p.Current, nil
}

func (p *ProjectManager) CreateProject(name string) (resolve.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	if _, exists := p.Projects[name]; exists {
		return nil, fmt.Errorf("project %q already exists", name)
	}
	project := &Project{ProjectName: name, Settings: map[string]string{}, Pool: NewMediaPool()}
	project.Pool.Owner = project
	p.Projects[name] = project
	p.Current = project
	return project, nil
}

func (p *ProjectManager) LoadProject(name string) (resolve.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	project, ok := p.Projects[name]
	if !ok {
		return nil, fmt.Errorf("project %q not found", name)
	}
	p.Current = project
	return project, nil
}

func (p *ProjectManager) SaveProject() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return false, p.Err
	}
	return p.Current != nil, nil
}

func (p *ProjectManager) CloseCurrentProject() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return false, p.Err
	}
	if p.Current == nil {
		return false, nil
	}
	p.Current = nil
	return true, nil
}

// Project is a fake resolve.Project.
type Project struct {
	mu           sync.Mutex
	ProjectName  string
	Settings     map[string]string
	Timelines    []*Timeline
	Current      *Timeline
	Pool         *MediaPool
	Presets      []string
	RenderJobs   map[string]map[string]interface{}
	Rendering    bool
	nextJob      int
	CacheCleared bool
	Err          error
	FailSettings bool
}

func (p *Project) fail() error {
	if p.Err != nil {
		return p.Err
	}
	return nil
}

func (p *Project) Name() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ProjectName, p.fail()
}

func (p *Project) Setting(key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return "", err
	}
	return p.Settings[key], nil
}

func (p *Project) SetSetting(key, value string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return false, err
	}
	if p.FailSettings {
		return false, nil
	}
	p.Settings[key] = value
	return true, nil
}

func (p *Project) TimelineCount() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Timelines), p.fail()
}

func (p *Project) TimelineByIndex(index int) (resolve.Timeline, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return nil, err
	}
	// Resolve timeline indexes are 1-based.
	if index < 1 || index > len(p.Timelines) {
		return nil, fmt.Errorf("timeline index %d out of range", index)
	}
	return p.Timelines[index-1], nil
}

func (p *Project) CurrentTimeline() (resolve.Timeline, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return nil, err
	}
	if p.Current == nil {
		return nil, fmt.Errorf("no timeline currently active")
	}
	return p.Current, nil
}

func (p *Project) SetCurrentTimeline(name string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return false, err
	}
	for _, t := range p.Timelines {
		if t.TimelineName == name {
			p.Current = t
			return true, nil
		}
	}
	return false, nil
}

func (p *Project) MediaPool() (resolve.MediaPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return nil, err
	}
	return p.Pool, nil
}

func (p *Project) RenderPresets() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Presets, p.fail()
}

func (p *Project) SetRenderSettings(settings map[string]interface{}) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Project) AddRenderJob() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return "", err
	}
	p.nextJob++
	id := fmt.Sprintf("job-%d", p.nextJob)
	if p.RenderJobs == nil {
		p.RenderJobs = map[string]map[string]interface{}{}
	}
	p.RenderJobs[id] = map[string]interface{}{"JobStatus": "Ready", "CompletionPercentage": 0}
	return id, nil
}

func (p *Project) StartRendering(jobIDs ...string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return false, err
	}
	p.Rendering = true
	return true, nil
}

func (p *Project) IsRenderingInProgress() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Rendering, p.fail()
}

func (p *Project) RenderJobStatus(jobID string) (map[string]interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return nil, err
	}
	status, ok := p.RenderJobs[jobID]
	if !ok {
		return nil, fmt.Errorf("render job %q not found", jobID)
	}
	return status, nil
}

func (p *Project) DeleteRenderJob(jobID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return false, err
	}
	if _, ok := p.RenderJobs[jobID]; !ok {
		return false, nil
	}
	delete(p.RenderJobs, jobID)
	return true, nil
}

func (p *Project) DeleteAllRenderJobs() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return false, err
	}
	p.RenderJobs = map[string]map[string]interface{}{}
	return true, nil
}

func (p *Project) ClearRenderCache() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail(); err != nil {
		return false, err
	}
	p.CacheCleared = true
	return true, nil
}

// Timeline is a fake resolve.Timeline.
type Timeline struct {
	mu           sync.Mutex
	TimelineName string
	Start        int
	End          int
	Tracks       map[string][][]*TimelineItem
	MarkerMap    map[int]resolve.Marker
	Timecode     string
	CurrentItem  *TimelineItem
	Err          error
}

func (t *Timeline) Name() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.TimelineName, t.Err
}

func (t *Timeline) StartFrame() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Start, t.Err
}

func (t *Timeline) EndFrame() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.End, t.Err
}

func (t *Timeline) TrackCount(trackType string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Tracks[trackType]), t.Err
}

func (t *Timeline) ItemsInTrack(trackType string, index int) ([]resolve.TimelineItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	tracks := t.Tracks[trackType]
	if index < 1 || index > len(tracks) {
		return nil, fmt.Errorf("track index %d out of range", index)
	}
	items := make([]resolve.TimelineItem, len(tracks[index-1]))
	for i, item := range tracks[index-1] {
		items[i] = item
	}
	return items, nil
}

func (t *Timeline) AddMarker(frame int, color, name, note string, duration int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return false, t.Err
	}
	if _, exists := t.MarkerMap[frame]; exists {
		// Resolve refuses a second marker on the same frame.
		return false, nil
	}
	t.MarkerMap[frame] = resolve.Marker{Name: name, Color: color, Note: note, Duration: duration}
	return true, nil
}

func (t *Timeline) Markers() (map[int]resolve.Marker, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	out := make(map[int]resolve.Marker, len(t.MarkerMap))
	for frame, m := range t.MarkerMap {
		out[frame] = m
	}
	return out, nil
}

func (t *Timeline) DeleteMarkerAtFrame(frame int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return false, t.Err
	}
	if _, ok := t.MarkerMap[frame]; !ok {
		return false, nil
	}
	delete(t.MarkerMap, frame)
	return true, nil
}

func (t *Timeline) CurrentTimecode() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Timecode, t.Err
}

func (t *Timeline) SetCurrentTimecode(timecode string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return false, t.Err
	}
	t.Timecode = timecode
	return true, nil
}

func (t *Timeline) AddTrack(trackType, subType string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return false, t.Err
	}
	t.Tracks[trackType] = append(t.Tracks[trackType], []*TimelineItem{})
	return true, nil
}

func (t *Timeline) CurrentVideoItem() (resolve.TimelineItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	if t.CurrentItem == nil {
		return nil, fmt.Errorf("no video item at playhead")
	}
	return t.CurrentItem, nil
}

func (t *Timeline) ApplyGradeFromDRX(path string, gradeMode int, items ...resolve.TimelineItem) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return false, t.Err
	}
	return len(items) > 0, nil
}

// AddItem places an item on a (1-based) track, growing the track list as needed.
func (t *Timeline) AddItem(trackType string, track int, item *TimelineItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.Tracks[trackType]) < track {
		t.Tracks[trackType] = append(t.Tracks[trackType], []*TimelineItem{})
	}
	t.Tracks[trackType][track-1] = append(t.Tracks[trackType][track-1], item)
}

// TimelineItem is a fake resolve.TimelineItem.
type TimelineItem struct {
	mu         sync.Mutex
	ItemName   string
	ID         string
	StartF     int
	EndF       int
	Media      string // "Video" or "Audio"
	Properties map[string]interface{}
	// FrameProperties records SetPropertyAtFrame calls: property -> frame -> value.
	FrameProperties map[string]map[int]interface{}
	// Interpolations records SetKeyframeInterpolation: property -> frame -> mode.
	Interpolations map[string]map[int]int
	KeyframeMode   string
	Comps          []*FusionComp
	NodeLabels     map[int]string
	Versions       []string
	LUTs           map[int]string
	Err            error
}

func NewTimelineItem(name, id string, start, end int) *TimelineItem {
	return &TimelineItem{
		ItemName:        name,
		ID:              id,
		StartF:          start,
		EndF:            end,
		Media:           "Video",
		Properties:      map[string]interface{}{},
		FrameProperties: map[string]map[int]interface{}{},
		NodeLabels:      map[int]string{},
		LUTs:            map[int]string{},
	}
}

func (i *TimelineItem) Name() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.ItemName, i.Err
}

func (i *TimelineItem) UniqueID() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.ID, i.Err
}

func (i *TimelineItem) Start() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.StartF, i.Err
}

func (i *TimelineItem) End() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.EndF, i.Err
}

func (i *TimelineItem) MediaType() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.Media, i.Err
}

func (i *TimelineItem) Property(name string) (interface{}, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return nil, i.Err
	}
	return i.Properties[name], nil
}

func (i *TimelineItem) SetProperty(name string, value interface{}) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	i.Properties[name] = value
	return true, nil
}

func (i *TimelineItem) SetPropertyAtFrame(name string, value interface{}, frame int) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	if frame < i.StartF || frame > i.EndF {
		return false, nil
	}
	if i.FrameProperties[name] == nil {
		i.FrameProperties[name] = map[int]interface{}{}
	}
	i.FrameProperties[name][frame] = value
	return true, nil
}

func (i *TimelineItem) FusionCompCount() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.Comps), i.Err
}

func (i *TimelineItem) FusionCompByIndex(index int) (resolve.FusionComp, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return nil, i.Err
	}
	if index < 1 || index > len(i.Comps) {
		return nil, fmt.Errorf("fusion comp index %d out of range", index)
	}
	return i.Comps[index-1], nil
}

func (i *TimelineItem) AddFusionComp() (resolve.FusionComp, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return nil, i.Err
	}
	comp := NewFusionComp(fmt.Sprintf("Composition %d", len(i.Comps)+1))
	i.Comps = append(i.Comps, comp)
	return comp, nil
}

func (i *TimelineItem) Keyframes(property string) (map[int]interface{}, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return nil, i.Err
	}
	out := make(map[int]interface{}, len(i.FrameProperties[property]))
	for frame, v := range i.FrameProperties[property] {
		out[frame] = v
	}
	return out, nil
}

func (i *TimelineItem) DeleteKeyframe(property string, frame int) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	frames := i.FrameProperties[property]
	if _, ok := frames[frame]; !ok {
		return false, nil
	}
	delete(frames, frame)
	return true, nil
}

func (i *TimelineItem) SetKeyframeInterpolation(property string, frame, mode int) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	if _, ok := i.FrameProperties[property][frame]; !ok {
		return false, nil
	}
	if i.Interpolations == nil {
		i.Interpolations = map[string]map[int]int{}
	}
	if i.Interpolations[property] == nil {
		i.Interpolations[property] = map[int]int{}
	}
	i.Interpolations[property][frame] = mode
	return true, nil
}

func (i *TimelineItem) EnableKeyframes(mode string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	i.KeyframeMode = mode
	return true, nil
}

func (i *TimelineItem) ApplyLUT(nodeIndex int, lutPath string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	i.LUTs[nodeIndex] = lutPath
	return true, nil
}

func (i *TimelineItem) NodeLabel(nodeIndex int) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.NodeLabels[nodeIndex], i.Err
}

func (i *TimelineItem) SetNodeLabel(nodeIndex int, label string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	i.NodeLabels[nodeIndex] = label
	return true, nil
}

func (i *TimelineItem) AddVersion(name string, versionType int) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	i.Versions = append(i.Versions, name)
	return true, nil
}

func (i *TimelineItem) LoadVersionByName(name string, versionType int) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	for _, v := range i.Versions {
		if v == name {
			return true, nil
		}
	}
	return false, nil
}

func (i *TimelineItem) CopyGrades(targets ...resolve.TimelineItem) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	return len(targets) > 0, nil
}

// FusionComp is a fake resolve.FusionComp.
type FusionComp struct {
	mu       sync.Mutex
	CompName string
	Tools    map[string]*FusionTool
	// Connections records ConnectTools calls as "source.out->target.in".
	Connections []string
	nextTool    int
	Err         error
}

func NewFusionComp(name string) *FusionComp {
	return &FusionComp{CompName: name, Tools: map[string]*FusionTool{}}
}

func (f *FusionComp) Name() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CompName, f.Err
}

func (f *FusionComp) ToolNames() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	names := make([]string, 0, len(f.Tools))
	for name := range f.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FusionComp) AddTool(toolType string, posX, posY float64) (resolve.FusionTool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.nextTool++
	name := fmt.Sprintf("%s%d", toolType, f.nextTool)
	tool := &FusionTool{ToolName: name, ToolType: toolType, Inputs: map[string]interface{}{}}
	f.Tools[name] = tool
	return tool, nil
}

func (f *FusionComp) ToolByName(name string) (resolve.FusionTool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	tool, ok := f.Tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %q not found", name)
	}
	return tool, nil
}

func (f *FusionComp) RemoveTool(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	if _, ok := f.Tools[name]; !ok {
		return false, nil
	}
	delete(f.Tools, name)
	return true, nil
}

func (f *FusionComp) ConnectTools(source, sourceOutput, target, targetInput string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	if _, ok := f.Tools[source]; !ok {
		return false, nil
	}
	if _, ok := f.Tools[target]; !ok {
		return false, nil
	}
	f.Connections = append(f.Connections,
		fmt.Sprintf("%s.%s->%s.%s", source, sourceOutput, target, targetInput))
	return true, nil
}

// FusionTool is a fake resolve.FusionTool.
type FusionTool struct {
	mu       sync.Mutex
	ToolName string
	ToolType string
	Inputs   map[string]interface{}
	Err      error
}

func (t *FusionTool) Name() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ToolName, t.Err
}

func (t *FusionTool) Type() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ToolType, t.Err
}

func (t *FusionTool) SetInput(name string, value interface{}) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return false, t.Err
	}
	t.Inputs[name] = value
	return true, nil
}

func (t *FusionTool) Input(name string) (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	return t.Inputs[name], nil
}

// MediaPool is a fake resolve.MediaPool.
type MediaPool struct {
	mu      sync.Mutex
	Root    *Folder
	Focused *Folder
	// Owner, when set, receives timelines created through the pool, matching
	// how Resolve attaches them to the open project.
	Owner *Project
	// Appended records clips handed to AppendToTimeline.
	Appended []*MediaPoolItem
	// Optimized records clips with generated optimized media.
	Optimized []*MediaPoolItem
	Err       error
}

func NewMediaPool() *MediaPool {
	root := &Folder{FolderName: "Master"}
	return &MediaPool{Root: root, Focused: root}
}

func (m *MediaPool) RootFolder() (resolve.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Root, nil
}

func (m *MediaPool) CurrentFolder() (resolve.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Focused, nil
}

func (m *MediaPool) SetCurrentFolder(f resolve.Folder) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	folder, ok := f.(*Folder)
	if !ok {
		return false, fmt.Errorf("foreign folder %T", f)
	}
	m.Focused = folder
	return true, nil
}

func (m *MediaPool) AddSubFolder(parent resolve.Folder, name string) (resolve.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	pf, ok := parent.(*Folder)
	if !ok {
		return nil, fmt.Errorf("foreign folder %T", parent)
	}
	sub := &Folder{FolderName: name}
	pf.Subs = append(pf.Subs, sub)
	return sub, nil
}

func (m *MediaPool) ImportMedia(paths []string) ([]resolve.MediaPoolItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	items := make([]resolve.MediaPoolItem, 0, len(paths))
	for _, path := range paths {
		clip := &MediaPoolItem{ClipName: path, Props: map[string]string{"File Path": path}}
		m.Focused.ClipList = append(m.Focused.ClipList, clip)
		items = append(items, clip)
	}
	return items, nil
}

func (m *MediaPool) CreateEmptyTimeline(name string) (resolve.Timeline, error) {
	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return nil, m.Err
	}
	owner := m.Owner
	m.mu.Unlock()

	tl := &Timeline{
		TimelineName: name,
		MarkerMap:    map[int]resolve.Marker{},
		Tracks:       map[string][][]*TimelineItem{"video": {{}}, "audio": {{}}},
	}
	if owner != nil {
		owner.mu.Lock()
		owner.Timelines = append(owner.Timelines, tl)
		owner.Current = tl
		owner.mu.Unlock()
	}
	return tl, nil
}

func (m *MediaPool) AppendToTimeline(items []resolve.MediaPoolItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, item := range items {
		clip, ok := item.(*MediaPoolItem)
		if !ok {
			return false, fmt.Errorf("foreign media pool item %T", item)
		}
		m.Appended = append(m.Appended, clip)
	}
	return len(items) > 0, nil
}

func (m *MediaPool) MoveClips(items []resolve.MediaPoolItem, target resolve.Folder) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	tf, ok := target.(*Folder)
	if !ok {
		return false, fmt.Errorf("foreign folder %T", target)
	}
	for _, item := range items {
		clip, ok := item.(*MediaPoolItem)
		if !ok {
			return false, fmt.Errorf("foreign media pool item %T", item)
		}
		removeClip(m.Root, clip)
		tf.ClipList = append(tf.ClipList, clip)
	}
	return true, nil
}

func (m *MediaPool) DeleteClips(items []resolve.MediaPoolItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, item := range items {
		clip, ok := item.(*MediaPoolItem)
		if !ok {
			return false, fmt.Errorf("foreign media pool item %T", item)
		}
		removeClip(m.Root, clip)
	}
	return true, nil
}

func (m *MediaPool) GenerateOptimizedMedia(items []resolve.MediaPoolItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, item := range items {
		clip, ok := item.(*MediaPoolItem)
		if !ok {
			return false, fmt.Errorf("foreign media pool item %T", item)
		}
		m.Optimized = append(m.Optimized, clip)
	}
	return len(items) > 0, nil
}

func (m *MediaPool) DeleteOptimizedMedia(items []resolve.MediaPoolItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, item := range items {
		clip, ok := item.(*MediaPoolItem)
		if !ok {
			return false, fmt.Errorf("foreign media pool item %T", item)
		}
		for j, opt := range m.Optimized {
			if opt == clip {
				m.Optimized = append(m.Optimized[:j], m.Optimized[j+1:]...)
				break
			}
		}
	}
	return true, nil
}

func removeClip(f *Folder, clip *MediaPoolItem) bool {
	for i, c := range f.ClipList {
		if c == clip {
			f.ClipList = append(f.ClipList[:i], f.ClipList[i+1:]...)
			return true
		}
	}
	for _, sub := range f.Subs {
		if removeClip(sub, clip) {
			return true
		}
	}
	return false
}

// Folder is a fake resolve.Folder.
type Folder struct {
	FolderName string
	ClipList   []*MediaPoolItem
	Subs       []*Folder
	Err        error
}

func (f *Folder) Name() (string, error) {
	return f.FolderName, f.Err
}

func (f *Folder) Clips() ([]resolve.MediaPoolItem, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	clips := make([]resolve.MediaPoolItem, len(f.ClipList))
	for i, c := range f.ClipList {
		clips[i] = c
	}
	return clips, nil
}

func (f *Folder) SubFolders() ([]resolve.Folder, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	subs := make([]resolve.Folder, len(f.Subs))
	for i, s := range f.Subs {
		subs[i] = s
	}
	return subs, nil
}

// MediaPoolItem is a fake resolve.MediaPoolItem.
type MediaPoolItem struct {
	mu       sync.Mutex
	ClipName string
	Props    map[string]string
	Proxy    string
	Err      error
}

func (i *MediaPoolItem) Name() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.ClipName, i.Err
}

func (i *MediaPoolItem) ClipProperty(name string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return "", i.Err
	}
	return i.Props[name], nil
}

func (i *MediaPoolItem) SetClipProperty(name, value string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	if i.Props == nil {
		i.Props = map[string]string{}
	}
	i.Props[name] = value
	return true, nil
}

func (i *MediaPoolItem) LinkProxyMedia(path string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	i.Proxy = path
	return true, nil
}

func (i *MediaPoolItem) UnlinkProxyMedia() (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return false, i.Err
	}
	i.Proxy = ""
	return true, nil
}
