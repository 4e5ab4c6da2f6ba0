package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/etcd"
)

// Artifact names, one per training pipeline output.
const (
	SegmentedModels  = "segmented-models"
	SegmentedScalers = "segmented-scalers"
	FeatureColumns   = "feature-columns"
)

const (
	SourceTypeFile = "file"
	SourceTypeEtcd = "etcd"

	etcdArtifactPath = "/artifacts/"
)

var fileNames = map[string]string{
	SegmentedModels:  "segmented_models.json",
	SegmentedScalers: "segmented_scalers.json",
	FeatureColumns:   "feature_columns.json",
}

// Source fetches the raw bytes of one artifact.
type Source interface {
	Fetch(ctx context.Context, artifact string) ([]byte, error)
	Type() string
}

// FileSource reads artifacts from a directory written by the training pipeline.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Type() string {
	return SourceTypeFile
}

func (s *FileSource) Fetch(_ context.Context, artifact string) ([]byte, error) {
	name, ok := fileNames[artifact]
	if !ok {
		return nil, fmt.Errorf("unknown artifact %s", artifact)
	}
	return os.ReadFile(filepath.Join(s.Dir, name))
}

// EtcdSource reads artifacts from <base path>/artifacts/<artifact>.
type EtcdSource struct {
	Client etcd.Etcd
}

func NewEtcdSource(client etcd.Etcd) *EtcdSource {
	return &EtcdSource{Client: client}
}

func (s *EtcdSource) Type() string {
	return SourceTypeEtcd
}

func (s *EtcdSource) Fetch(ctx context.Context, artifact string) ([]byte, error) {
	return s.Client.GetValue(ctx, etcdArtifactPath+artifact)
}
