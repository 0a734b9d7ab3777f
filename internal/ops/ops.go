// Package ops is the leaf catalogue: every remote-callable operation the
// bridge exposes, grouped by the Resolve area it drives. Leaves are thin:
// pre-validated arguments and a live scripting handle in, a plain result or
// error out. Page switching, serialization, and error shaping all happen in
// the mediator; a leaf that needs a page declares it on its descriptor.
package ops

import (
	"resolvemcp/internal/mediator"
	"resolvemcp/internal/resolve"
)

// RegisterAll installs the full catalogue into the registry. Called once at
// bootstrap; duplicate names panic there rather than surfacing at dispatch.
func RegisterAll(reg *mediator.Registry) {
	registerCore(reg)
	registerProject(reg)
	registerTimeline(reg)
	registerMedia(reg)
	registerColor(reg)
	registerFusion(reg)
	registerFairlight(reg)
	registerDelivery(reg)
	registerCache(reg)
	registerKeyframe(reg)
	registerInspect(reg)
}

// projectManager navigates to the project manager on the current handle.
func projectManager(s *mediator.Session) (resolve.ProjectManager, error) {
	host, err := s.Host()
	if err != nil {
		return nil, err
	}
	return host.ProjectManager()
}

// currentProject navigates to the open project. No project open is a leaf
// fault the caller can act on, so it is reported as one.
func currentProject(s *mediator.Session) (resolve.Project, error) {
	pm, err := projectManager(s)
	if err != nil {
		return nil, err
	}
	project, err := pm.CurrentProject()
	if err != nil {
		return nil, mediator.NewLeafError("get_current_project", err)
	}
	return project, nil
}

func currentTimeline(s *mediator.Session) (resolve.Timeline, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	timeline, err := project.CurrentTimeline()
	if err != nil {
		return nil, mediator.NewLeafError("get_current_timeline", err)
	}
	return timeline, nil
}

func mediaPool(s *mediator.Session) (resolve.MediaPool, error) {
	project, err := currentProject(s)
	if err != nil {
		return nil, err
	}
	pool, err := project.MediaPool()
	if err != nil {
		return nil, mediator.NewLeafError("get_media_pool", err)
	}
	return pool, nil
}

// currentVideoItem is the clip under the playhead, shared by the color and
// keyframe areas.
func currentVideoItem(s *mediator.Session, op string) (resolve.TimelineItem, error) {
	timeline, err := currentTimeline(s)
	if err != nil {
		return nil, err
	}
	item, err := timeline.CurrentVideoItem()
	if err != nil {
		return nil, mediator.NewLeafError(op, err)
	}
	return item, nil
}

// findClip locates a media pool clip by name in the current bin, falling
// back to the root bin. Resolve has no clip lookup call, so the catalogue
// scans folder listings the same way the scripting console would.
func findClip(pool resolve.MediaPool, name string) (resolve.MediaPoolItem, error) {
	folders := []func() (resolve.Folder, error){pool.CurrentFolder, pool.RootFolder}
	for _, get := range folders {
		folder, err := get()
		if err != nil {
			continue
		}
		clips, err := folder.Clips()
		if err != nil {
			continue
		}
		for _, clip := range clips {
			clipName, err := clip.Name()
			if err == nil && clipName == name {
				return clip, nil
			}
		}
	}
	return nil, mediator.Leaff("find_clip", "clip %q not found in the media pool", name)
}

// findFolder walks the bin tree breadth-first looking for a bin by name.
func findFolder(pool resolve.MediaPool, name string) (resolve.Folder, error) {
	root, err := pool.RootFolder()
	if err != nil {
		return nil, mediator.NewLeafError("find_bin", err)
	}
	queue := []resolve.Folder{root}
	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]
		folderName, err := folder.Name()
		if err == nil && folderName == name {
			return folder, nil
		}
		subs, err := folder.SubFolders()
		if err != nil {
			continue
		}
		queue = append(queue, subs...)
	}
	return nil, mediator.Leaff("find_bin", "bin %q not found", name)
}
