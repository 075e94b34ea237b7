package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/sorcerai/packfs/pkg/intent"
)

func printSuggestions(suggestions []intent.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "Did you mean:")
	for _, s := range suggestions {
		fmt.Fprintf(os.Stderr, "  [%s] %s\n", s.Type, s.Description)
		for _, p := range s.Paths {
			fmt.Fprintf(os.Stderr, "    - %s\n", p)
		}
	}
}

func printMetadata(meta *intent.FileMetadata) {
	if meta == nil {
		return
	}
	kind := "file"
	if meta.IsDir {
		kind = "directory"
	}
	fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
		meta.Path, kind, humanize.Bytes(uint64(meta.Size)),
		meta.MimeType, meta.Mtime.Format("2006-01-02 15:04:05"))
}

func printFiles(files []intent.FoundFile, total int) {
	for _, f := range files {
		if f.IsDir {
			fmt.Printf("%s/\n", f.Path)
			continue
		}
		line := f.Path
		if f.Relevance > 0 {
			line = fmt.Sprintf("%s\t(%.2f)", line, f.Relevance)
		}
		if f.Size > 0 {
			line = fmt.Sprintf("%s\t%s", line, humanize.Bytes(uint64(f.Size)))
		}
		fmt.Println(line)
	}
	if total > len(files) {
		fmt.Printf("... %d of %d results shown\n", len(files), total)
	}
}
