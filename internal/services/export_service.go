package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/storage"
)

// ManifestItem is one selected photo in the export snapshot. Empty strings
// stand for missing comment/notes; exports never render a nil marker.
type ManifestItem struct {
	Filename     string `json:"filename"`
	PhotoComment string `json:"photo_comment"`
	ProjectNotes string `json:"project_notes"`
}

// Manifest is the deterministic snapshot behind CSV, ZIP and script exports.
// Items are sorted by filename ascending so repeated exports are identical.
type Manifest struct {
	ProjectID     uuid.UUID      `json:"project_id"`
	ProjectTitle  string         `json:"project_title"`
	TotalSelected int            `json:"total_selected"`
	Photos        []ManifestItem `json:"photos"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// ExportService builds download artifacts for owners.
type ExportService struct {
	db    *gorm.DB
	store storage.ObjectStorage
}

func NewExportService(db *gorm.DB, store storage.ObjectStorage) *ExportService {
	return &ExportService{db: db, store: store}
}

// BuildPhotoManifest snapshots the project's selected photos with each
// photo's latest comment. A missing project and a foreign owner collapse
// into the same error so callers cannot tell them apart.
func (s *ExportService) BuildPhotoManifest(projectID, ownerID uuid.UUID) (*Manifest, error) {
	project, err := repository.GetProjectByID(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: project not found or access denied", ErrNotFound)
	}

	selected, err := repository.GetSelectedPhotosByProject(s.db, projectID)
	if err != nil {
		return nil, err
	}

	items := make([]ManifestItem, 0, len(selected))
	for i := range selected {
		comment, err := repository.LatestCommentByPhoto(s.db, selected[i].ID)
		if err != nil {
			return nil, err
		}
		item := ManifestItem{
			Filename:     selected[i].Filename,
			ProjectNotes: project.ClientNotes,
		}
		if comment != nil {
			item.PhotoComment = comment.Content
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Filename < items[j].Filename })

	return &Manifest{
		ProjectID:     projectID,
		ProjectTitle:  project.Title,
		TotalSelected: len(items),
		Photos:        items,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// GenerateCSVContent renders the manifest as CSV with the fixed header row.
func (s *ExportService) GenerateCSVContent(manifest *Manifest) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"filename", "photo_comment", "project_notes"}); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range manifest.Photos {
		if err := writer.Write([]string{item.Filename, item.PhotoComment, item.ProjectNotes}); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.String(), nil
}

// GenerateScriptTemplates renders shell snippets that sort a folder of photo
// files into Selected/<EXT>/ and NotSelected/<EXT>/ based on the selected
// set embedded in the script text. Nothing is executed server-side.
func (s *ExportService) GenerateScriptTemplates(manifest *Manifest) []models.ScriptTemplate {
	filenames := make([]string, len(manifest.Photos))
	for i, item := range manifest.Photos {
		filenames[i] = item.Filename
	}

	return []models.ScriptTemplate{
		{Name: "powershell", Content: buildPowerShellScript(manifest.ProjectTitle, filenames), Extension: ".ps1"},
		{Name: "bash", Content: buildBashScript(manifest.ProjectTitle, filenames), Extension: ".sh"},
		{Name: "zsh", Content: buildZshScript(manifest.ProjectTitle, filenames), Extension: ".sh"},
	}
}

// BuildManifestZip packs the manifest CSV together with the selected photos'
// original bytes, laid out the way the generated scripts would sort them.
func (s *ExportService) BuildManifestZip(ctx context.Context, manifest *Manifest) ([]byte, error) {
	csvContent, err := s.GenerateCSVContent(manifest)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	csvFile, err := zw.Create("photos.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err := csvFile.Write([]byte(csvContent)); err != nil {
		return nil, fmt.Errorf("failed to write manifest csv: %w", err)
	}

	for _, item := range manifest.Photos {
		key := storage.ObjectKey(manifest.ProjectID.String(), models.VersionOriginal, item.Filename)
		data, err := s.store.Download(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", item.Filename, err)
		}
		if data == nil {
			// Metadata row without bytes in storage; skip the file entry.
			continue
		}
		ext := strings.ToUpper(strings.TrimPrefix(path.Ext(item.Filename), "."))
		entry, err := zw.Create(fmt.Sprintf("Selected/%s/%s", ext, item.Filename))
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry: %w", err)
		}
		if _, err := entry.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", item.Filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

func scriptHeader(comment, projectTitle string, filenames []string) string {
	listed := "none"
	if len(filenames) > 0 {
		listed = strings.Join(filenames, ", ")
	}
	return fmt.Sprintf("%s Auto-generated script - move photos by selection status\n%s Project: %s\n%s Selected photos: %s\n",
		comment, comment, projectTitle, comment, listed)
}

func buildPowerShellScript(projectTitle string, filenames []string) string {
	quoted := make([]string, len(filenames))
	for i, f := range filenames {
		quoted[i] = `"` + f + `"`
	}

	var b strings.Builder
	b.WriteString(scriptHeader("#", projectTitle, filenames))
	b.WriteString("\n$selectedPhotos = @(" + strings.Join(quoted, ", ") + ")\n\n")
	b.WriteString(`foreach ($file in Get-ChildItem -File) {
    $ext = $file.Extension.ToUpper().TrimStart('.')

    if ($selectedPhotos -contains $file.Name) {
        $targetDir = "Selected\$ext"
    } else {
        $targetDir = "NotSelected\$ext"
    }

    New-Item -ItemType Directory -Path $targetDir -Force | Out-Null
    Move-Item -Path $file.FullName -Destination "$targetDir\$($file.Name)" -Force
}

Write-Host "Organization complete!"
`)
	return b.String()
}

func buildBashScript(projectTitle string, filenames []string) string {
	quoted := make([]string, len(filenames))
	for i, f := range filenames {
		quoted[i] = `"` + f + `"`
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString(scriptHeader("#", projectTitle, filenames))
	b.WriteString("\nselected_photos=(" + strings.Join(quoted, " ") + ")\n\n")
	b.WriteString(`for file in *; do
    [ -f "$file" ] || continue

    ext="${file##*.}"
    ext="${ext^^}"

    if [[ " ${selected_photos[@]} " =~ " ${file} " ]]; then
        target_dir="Selected/$ext"
    else
        target_dir="NotSelected/$ext"
    fi

    mkdir -p "$target_dir"
    mv "$file" "$target_dir/$file"
done

echo "Organization complete!"
`)
	return b.String()
}

func buildZshScript(projectTitle string, filenames []string) string {
	quoted := make([]string, len(filenames))
	for i, f := range filenames {
		quoted[i] = `"` + f + `"`
	}

	var b strings.Builder
	b.WriteString("#!/bin/zsh\n")
	b.WriteString(scriptHeader("#", projectTitle, filenames))
	b.WriteString("\nselected_photos=(" + strings.Join(quoted, " ") + ")\n\n")
	b.WriteString(`for file in *(D); do
    [[ -f "$file" ]] || continue

    ext="${file##*.}"
    ext="${ext:u}"

    if (( ${+selected_photos[(r)${file}]} )); then
        target_dir="Selected/$ext"
    else
        target_dir="NotSelected/$ext"
    fi

    mkdir -p "$target_dir"
    mv "$file" "$target_dir/$file"
done

echo "Organization complete!"
`)
	return b.String()
}
