// Package resolve declares the narrow capability interfaces this bridge
// requires from the DaVinci Resolve scripting surface. The real scripting
// handle is duck-typed and its method availability varies across Resolve
// versions; every interface here is the minimal shape a leaf operation
// needs, and the scriptbridge package translates its quirks in one place.
package resolve

import "strings"

// Pages in the order Resolve presents them.
const (
	PageMedia     = "media"
	PageCut       = "cut"
	PageEdit      = "edit"
	PageFusion    = "fusion"
	PageColor     = "color"
	PageFairlight = "fairlight"
	PageDeliver   = "deliver"
)

// Pages returns every valid Resolve page name in canonical (lowercase) form.
func Pages() []string {
	return []string{PageMedia, PageCut, PageEdit, PageFusion, PageColor, PageFairlight, PageDeliver}
}

// IsValidPage reports whether name is a known Resolve page. Comparison is
// case-insensitive; Resolve itself accepts any casing.
func IsValidPage(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range Pages() {
		if p == lower {
			return true
		}
	}
	return false
}

// Host is the scripting handle to a running Resolve instance. Every method
// may fail: the underlying application can quit, hang, or refuse a call at
// any time, and callers must treat each invocation as fallible.
type Host interface {
	ProductName() (string, error)
	Version() (string, error)

	// CurrentPage returns the page currently open in the UI, lowercase.
	CurrentPage() (string, error)

	// OpenPage switches the UI to the named page. Resolve reports refusal
	// by returning false rather than an error.
	OpenPage(name string) (bool, error)

	// IsAlive is the lightweight liveness probe used by the session before
	// each dispatched call.
	IsAlive() bool

	ProjectManager() (ProjectManager, error)

	// Close releases the underlying transport. The handle is unusable after.
	Close() error
}

// ProjectManager mirrors the Resolve project manager object.
type ProjectManager interface {
	ProjectNames() ([]string, error)
	CurrentProject() (Project, error)
	CreateProject(name string) (Project, error)
	LoadProject(name string) (Project, error)
	SaveProject() (bool, error)
	CloseCurrentProject() (bool, error)
}

// Project mirrors the Resolve project object.
type Project interface {
	Name() (string, error)
	Setting(key string) (string, error)
	SetSetting(key, value string) (bool, error)

	TimelineCount() (int, error)
	TimelineByIndex(index int) (Timeline, error)
	CurrentTimeline() (Timeline, error)
	SetCurrentTimeline(name string) (bool, error)

	MediaPool() (MediaPool, error)

	RenderPresets() ([]string, error)
	SetRenderSettings(settings map[string]interface{}) (bool, error)
	AddRenderJob() (string, error)
	StartRendering(jobIDs ...string) (bool, error)
	IsRenderingInProgress() (bool, error)
	RenderJobStatus(jobID string) (map[string]interface{}, error)
	DeleteRenderJob(jobID string) (bool, error)
	DeleteAllRenderJobs() (bool, error)

	// ClearRenderCache discards the project's render cache files.
	ClearRenderCache() (bool, error)
}

// Timeline mirrors the Resolve timeline object.
type Timeline interface {
	Name() (string, error)
	StartFrame() (int, error)
	EndFrame() (int, error)
	TrackCount(trackType string) (int, error)
	ItemsInTrack(trackType string, index int) ([]TimelineItem, error)

	AddMarker(frame int, color, name, note string, duration int) (bool, error)
	Markers() (map[int]Marker, error)
	DeleteMarkerAtFrame(frame int) (bool, error)

	CurrentTimecode() (string, error)
	SetCurrentTimecode(timecode string) (bool, error)

	AddTrack(trackType, subType string) (bool, error)

	// CurrentVideoItem is the item under the playhead; only valid on the
	// edit and color pages.
	CurrentVideoItem() (TimelineItem, error)

	ApplyGradeFromDRX(path string, gradeMode int, items ...TimelineItem) (bool, error)
}

// Marker is the value shape of one timeline marker.
type Marker struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Note     string `json:"note"`
	Duration int    `json:"duration"`
}

// TimelineItem mirrors a clip placed on a timeline track.
type TimelineItem interface {
	Name() (string, error)
	UniqueID() (string, error)
	Start() (int, error)
	End() (int, error)
	MediaType() (string, error)

	Property(name string) (interface{}, error)
	SetProperty(name string, value interface{}) (bool, error)
	SetPropertyAtFrame(name string, value interface{}, frame int) (bool, error)

	FusionCompCount() (int, error)
	FusionCompByIndex(index int) (FusionComp, error)
	AddFusionComp() (FusionComp, error)

	// Keyframes returns the keyframed values of one property, keyed by frame.
	Keyframes(property string) (map[int]interface{}, error)
	DeleteKeyframe(property string, frame int) (bool, error)
	SetKeyframeInterpolation(property string, frame, mode int) (bool, error)
	EnableKeyframes(mode string) (bool, error)

	ApplyLUT(nodeIndex int, lutPath string) (bool, error)
	NodeLabel(nodeIndex int) (string, error)
	SetNodeLabel(nodeIndex int, label string) (bool, error)
	AddVersion(name string, versionType int) (bool, error)
	LoadVersionByName(name string, versionType int) (bool, error)
	CopyGrades(targets ...TimelineItem) (bool, error)
}

// FusionComp mirrors a Fusion composition attached to a timeline item.
type FusionComp interface {
	Name() (string, error)
	ToolNames() ([]string, error)
	AddTool(toolType string, posX, posY float64) (FusionTool, error)
	ToolByName(name string) (FusionTool, error)
	RemoveTool(name string) (bool, error)
	ConnectTools(source, sourceOutput, target, targetInput string) (bool, error)
}

// FusionTool mirrors a single node inside a Fusion composition.
type FusionTool interface {
	Name() (string, error)
	Type() (string, error)
	SetInput(name string, value interface{}) (bool, error)
	Input(name string) (interface{}, error)
}

// MediaPool mirrors the Resolve media pool object.
type MediaPool interface {
	RootFolder() (Folder, error)
	CurrentFolder() (Folder, error)
	SetCurrentFolder(f Folder) (bool, error)
	AddSubFolder(parent Folder, name string) (Folder, error)
	ImportMedia(paths []string) ([]MediaPoolItem, error)
	CreateEmptyTimeline(name string) (Timeline, error)
	AppendToTimeline(items []MediaPoolItem) (bool, error)
	MoveClips(items []MediaPoolItem, target Folder) (bool, error)
	DeleteClips(items []MediaPoolItem) (bool, error)

	GenerateOptimizedMedia(items []MediaPoolItem) (bool, error)
	DeleteOptimizedMedia(items []MediaPoolItem) (bool, error)
}

// Folder mirrors a media pool bin.
type Folder interface {
	Name() (string, error)
	Clips() ([]MediaPoolItem, error)
	SubFolders() ([]Folder, error)
}

// MediaPoolItem mirrors a clip in the media pool.
type MediaPoolItem interface {
	Name() (string, error)
	ClipProperty(name string) (string, error)
	SetClipProperty(name, value string) (bool, error)
	LinkProxyMedia(path string) (bool, error)
	UnlinkProxyMedia() (bool, error)
}
