package model

import (
	"fmt"
	"strings"
)

// Archive path layout:
//
//	blobs/{unitHash}                      content-addressed unit file bytes
//	bundles/{fingerprint}/bundle.yaml     bundle descriptor
//	bundles/{fingerprint}/units.yaml      unit index
//	tags/{project}/{tag}.yaml             tag pointer
const (
	bundleDescriptorFile = "bundle.yaml"
	bundleEntriesFile    = "units.yaml"

	// ConsumableDirName is the directory holding provenance metadata
	// inside a materialized local bundle
	ConsumableDirName = ".artpack"
)

func getArchivePathToBlobs() string {
	return "blobs/"
}

// GetArchivePathToBlob is the storage key of a content-addressed unit blob
func GetArchivePathToBlob(hash string) string {
	return fmt.Sprint(getArchivePathToBlobs(), hash)
}

func getArchivePathToBundles() string {
	return "bundles/"
}

// GetArchivePathPrefixToBundles is the common key prefix of all stored bundles
func GetArchivePathPrefixToBundles() string {
	return getArchivePathToBundles()
}

// GetArchivePathToBundle is the storage key of a bundle descriptor
func GetArchivePathToBundle(fingerprint string) string {
	return fmt.Sprint(getArchivePathToBundles(), fingerprint, "/", bundleDescriptorFile)
}

// GetArchivePathToBundleEntries is the storage key of a bundle's unit index
func GetArchivePathToBundleEntries(fingerprint string) string {
	return fmt.Sprint(getArchivePathToBundles(), fingerprint, "/", bundleEntriesFile)
}

func getArchivePathToTags() string {
	return "tags/"
}

// GetArchivePathPrefixToTags is the common key prefix of a project's tags
func GetArchivePathPrefixToTags(project string) string {
	return fmt.Sprint(getArchivePathToTags(), project, "/")
}

// GetArchivePathToTag is the storage key of a tag pointer
func GetArchivePathToTag(project, tag string) string {
	return fmt.Sprint(GetArchivePathPrefixToTags(project), tag, ".yaml")
}

// ArchivePathComponents defines the metadata components parsed from an archive path
type ArchivePathComponents struct {
	BlobHash    string
	Fingerprint string
	Project     string
	TagName     string
}

// GetArchivePathComponents yields the metadata components from a parsed archive path
func GetArchivePathComponents(archivePath string) (ArchivePathComponents, error) {
	cs := strings.Split(archivePath, "/")
	switch cs[0] {
	case "blobs":
		if len(cs) != 2 || cs[1] == "" {
			return ArchivePathComponents{}, fmt.Errorf("invalid blob path %q", archivePath)
		}
		return ArchivePathComponents{BlobHash: cs[1]}, nil
	case "bundles":
		if len(cs) != 3 || cs[1] == "" {
			return ArchivePathComponents{}, fmt.Errorf("invalid bundle path %q", archivePath)
		}
		return ArchivePathComponents{Fingerprint: cs[1]}, nil
	case "tags":
		if len(cs) != 3 || cs[1] == "" || !strings.HasSuffix(cs[2], ".yaml") {
			return ArchivePathComponents{}, fmt.Errorf("invalid tag path %q", archivePath)
		}
		return ArchivePathComponents{
			Project: cs[1],
			TagName: strings.TrimSuffix(cs[2], ".yaml"),
		}, nil
	default:
		return ArchivePathComponents{}, fmt.Errorf("unknown archive path %q", archivePath)
	}
}

// GetConsumablePathToProvenance is the provenance file path relative to
// a materialized bundle root
func GetConsumablePathToProvenance() string {
	return ConsumableDirName + "/bundle.yaml"
}

// IsGeneratedPath tells whether a path relative to a bundle root was
// generated by the store itself rather than by the build tool
func IsGeneratedPath(rel string) bool {
	return rel == ConsumableDirName || strings.HasPrefix(rel, ConsumableDirName+"/")
}
