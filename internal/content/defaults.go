package content

import "fmt"

// Seed content for freshly created projects, as shipped by the original
// system: a minimal mustache-style HTML skeleton and a starter stylesheet.

const defaultTemplate = `<!DOCTYPE html>
<html lang="en">

<head>
<link rel="stylesheet" href="style.css" />
<title>{{title}}</title>
</head>

<body>
<h1>{{title}}</h1>
{{{content}}}
</body>
</html>`

const defaultStyle = `* {
  font-family: sans-serif;
}

h1 {
  font-size: 2rem;
  font-weight: bold;
}

h2 {
  font-size: 1.5rem;
  font-weight: bold;
}

img {
  width: 80%;
}`

// bootstrapTheme creates the standard theme collections and seeds the
// default template and stylesheet. Invoked exactly once, from NewProject.
func (p *Project) bootstrapTheme() error {
	meta, err := p.meta()
	if err != nil {
		return err
	}
	if err := meta.Set(metaName, "New Theme"); err != nil {
		return fmt.Errorf("setting theme name: %w", err)
	}

	contentModel := Model{"content": requiredField(FieldText)}
	for _, name := range []string{"template", "partial", "text"} {
		if _, err := p.AddCollection(name, contentModel); err != nil {
			return err
		}
	}
	if _, err := p.AddCollection("asset", Model{"mimeType": requiredField(FieldString)}); err != nil {
		return err
	}

	tmpl, err := p.CreateFile("template", "index")
	if err != nil {
		return err
	}
	if err := tmpl.SetContent(defaultTemplate); err != nil {
		return fmt.Errorf("seeding default template: %w", err)
	}

	style, err := p.CreateFile("text", "style")
	if err != nil {
		return err
	}
	if err := style.SetContent(defaultStyle); err != nil {
		return fmt.Errorf("seeding default style: %w", err)
	}
	return nil
}

// bootstrapSite creates the standard site collections, links the theme, and
// seeds a starter page and post. Invoked exactly once, from NewProject.
func (p *Project) bootstrapSite(themeID string) error {
	meta, err := p.meta()
	if err != nil {
		return err
	}
	if err := meta.Set(metaName, "New Site"); err != nil {
		return fmt.Errorf("setting site name: %w", err)
	}
	if err := meta.Set(metaThemeID, themeID); err != nil {
		return fmt.Errorf("setting theme id: %w", err)
	}

	pageModel := Model{
		"template": requiredField(FieldString),
		"title":    requiredField(FieldString),
		"body":     requiredField(FieldRichText),
	}
	if _, err := p.AddCollection("page", pageModel); err != nil {
		return err
	}

	postModel := Model{
		"title": requiredField(FieldString),
		"body":  requiredField(FieldRichText),
	}
	if _, err := p.AddCollection("post", postModel); err != nil {
		return err
	}

	if _, err := p.AddCollection("asset", Model{"mimeType": requiredField(FieldString)}); err != nil {
		return err
	}

	page, err := p.CreateFile("page", "main")
	if err != nil {
		return err
	}
	if err := page.SetTitle("Hello World Title!"); err != nil {
		return fmt.Errorf("seeding default page: %w", err)
	}

	post, err := p.CreateFile("post", "test_post")
	if err != nil {
		return err
	}
	if err := post.SetTitle("Hello World Title!"); err != nil {
		return fmt.Errorf("seeding default post: %w", err)
	}
	return nil
}
