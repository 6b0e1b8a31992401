package statement

import "strings"

// FixAttachmentLinks rewrites embedded attachment references to absolute
// URLs under base. Attachments identified only by content hash get a
// retrieval URL; relative fileUrl values are resolved against base.
func (d Document) FixAttachmentLinks(base string) {
	if base == "" {
		return
	}
	base = strings.TrimRight(base, "/")

	rewrite := func(m map[string]any) {
		atts, ok := m["attachments"].([]any)
		if !ok {
			return
		}
		for _, raw := range atts {
			att, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			fileURL, _ := att["fileUrl"].(string)
			switch {
			case fileURL == "":
				if sha2, _ := att["sha2"].(string); sha2 != "" {
					att["fileUrl"] = base + "?sha2=" + sha2
				}
			case !strings.Contains(fileURL, "://"):
				att["fileUrl"] = base + "/" + strings.TrimLeft(fileURL, "/")
			}
		}
	}

	rewrite(d)
	if sub := d.subStatement(); sub != nil {
		rewrite(sub)
	}
}
