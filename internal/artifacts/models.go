// Package artifacts persists a manifest of every file the pipeline emits
// under the build directory: which unit produced it, what kind of output
// it is, and where it landed. The CLI's --clean-* flags query this
// manifest to find and remove exactly the files they name; nothing here
// skips a pipeline stage based on manifest contents; incremental
// recompilation is out of scope.
package artifacts

import (
	"time"

	"gorm.io/datatypes"
)

// Kind classifies an emitted artifact, matching the --clean-{kind} flags.
type Kind string

const (
	KindTokens      Kind = "tokens"
	KindAssembler   Kind = "assembler"
	KindLLVMIR      Kind = "llvm-ir"
	KindLLVMBitcode Kind = "llvm-bitcode"
	KindObject      Kind = "objects"
)

// Run is one compiler invocation: a UUID run ID, its start time, and the
// backend options it was invoked with, snapshotted as JSON.
type Run struct {
	ID             string         `gorm:"primaryKey;type:varchar(36)"`
	StartedAt      time.Time      `gorm:"autoCreateTime"`
	BackendOptions datatypes.JSON `gorm:"type:jsonb"`
}

func (Run) TableName() string { return "runs" }

// Artifact is one emitted file: which run and unit produced it, its kind,
// its path on disk, and its size at write time.
type Artifact struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	RunID     string `gorm:"type:varchar(36);index"`
	UnitName  string `gorm:"type:varchar(255);index"`
	Kind      string `gorm:"type:varchar(20);index"`
	Path      string `gorm:"type:text"`
	Bytes     int64
	WrittenAt time.Time `gorm:"autoCreateTime"`
}

func (Artifact) TableName() string { return "artifacts" }
