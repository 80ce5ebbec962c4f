package store

func blogSchemas() []*Schema {
	users := NewSchema("users").
		HasOne("profile", "profiles", "user_id")
	posts := NewSchema("posts").
		BelongsTo("author", "users", "").
		HasMany("comments", "comments", "post_id", "id")
	comments := NewSchema("comments").
		BelongsTo("author", "users", "")
	profiles := NewSchema("profiles")
	return []*Schema{users, posts, comments, profiles}
}

func schemaOf(schemas []*Schema, typeName string) *Schema {
	for _, s := range schemas {
		if s.Type == typeName {
			return s
		}
	}
	return nil
}
