package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/buildtrace/artpack/pkg/model"
	"gopkg.in/yaml.v2"

	"github.com/buildtrace/artpack/pkg/storage"
)

const tagsPerPage = 100

// ApplyTagFunc is called once per tag descriptor while listing
type ApplyTagFunc func(model.TagDescriptor) error

// ListTagsApply streams a project's tags through the apply function,
// in lexicographic tag order.
//
// Listing pages through the backend keyspace, so it is finite and
// restartable: a failed listing can simply be run again.
func ListTagsApply(ctx context.Context, stores Stores, project string, apply ApplyTagFunc) error {
	if err := model.ValidateProject(project); err != nil {
		return err
	}
	prefix := model.GetArchivePathPrefixToTags(project)
	token := ""
	for {
		keys, next, err := stores.Meta().KeysPrefix(ctx, token, prefix, "", tagsPerPage)
		if err != nil {
			return fmt.Errorf("list tags for project %s: %w", project, err)
		}
		for _, key := range keys {
			apc, err := model.GetArchivePathComponents(key)
			if err != nil {
				// not a tag pointer: some other object under the prefix
				continue
			}
			desc, err := readTagDescriptor(ctx, stores.Meta(), key, apc)
			if err != nil {
				return err
			}
			if err := apply(*desc); err != nil {
				return err
			}
		}
		if next == "" {
			return nil
		}
		token = next
	}
}

// ListTags returns all of a project's tags, sorted by tag name
func ListTags(ctx context.Context, stores Stores, project string) ([]model.TagDescriptor, error) {
	descs := make([]model.TagDescriptor, 0)
	err := ListTagsApply(ctx, stores, project, func(desc model.TagDescriptor) error {
		descs = append(descs, desc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(descs, func(i, j int) bool {
		return descs[i].Name < descs[j].Name
	})
	return descs, nil
}

func readTagDescriptor(ctx context.Context, store storage.Store, key string, apc model.ArchivePathComponents) (*model.TagDescriptor, error) {
	buf, err := storage.ReadAll(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("read tag descriptor %q: %w", key, err)
	}
	var desc model.TagDescriptor
	if err := yaml.Unmarshal(buf, &desc); err != nil {
		return nil, fmt.Errorf("corrupt tag descriptor %q: %w", key, err)
	}
	switch {
	case desc.Name == "":
		desc.Name = apc.TagName
	case desc.Name != apc.TagName:
		return nil, fmt.Errorf("tag names in descriptor %q and archive path %q don't match", desc.Name, apc.TagName)
	}
	if desc.Project == "" {
		desc.Project = apc.Project
	}
	return &desc, nil
}
