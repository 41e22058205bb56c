package model

// 首次读取集合且不存在时写入的内置默认数据

func DefaultCourses() []Course {
	c := func(id, title, url string, level CourseLevel, category string, hours float64, desc string) Course {
		return Course{
			ID:            id,
			Title:         title,
			Source:        "YouTube",
			URL:           url,
			Level:         level,
			Category:      category,
			DurationHours: hours,
			Status:        CourseNotStarted,
			Progress:      0,
			Description:   desc,
		}
	}
	return []Course{
		c("sql-1", "SQL Tutorial for Beginners", "https://youtu.be/v8i2NgiM5pE", LevelBasic, "SQL", 4,
			"A comprehensive SQL tutorial for beginners covering all the basics."),
		c("sql-2", "SQL for Data Science", "https://www.youtube.com/watch?v=DX8I5SmB6jo", LevelIntermediate, "SQL", 6,
			"Learn SQL specifically for data science applications."),
		c("sql-3", "Advanced SQL Queries", "https://www.youtube.com/watch?v=BxAj3bl00-o", LevelAdvanced, "SQL", 3,
			"Master complex SQL queries and optimization."),
		c("sql-4", "SQL Database Design", "https://www.youtube.com/watch?v=n17RCiV5xpA", LevelIntermediate, "SQL", 5,
			"Principles of relational database design and normalization."),
		c("sql-5", "SQL Performance Tuning", "https://www.youtube.com/watch?v=tvBp81WVrCA", LevelAdvanced, "SQL", 2,
			"Learn how to make your SQL queries run faster."),
		c("sql-6", "SQL for Business Analysts", "https://www.youtube.com/watch?v=OdnxoJitdAg", LevelBasic, "SQL", 3,
			"SQL skills tailored for business analysis and reporting."),
		c("api-1", "What is an API?", "https://www.youtube.com/watch?v=bg3ryd2BHZk", LevelBasic, "APIs", 1,
			"A simple explanation of what APIs are and how they work."),
		c("api-2", "REST API Tutorial", "https://www.youtube.com/watch?v=gXl_kcat_SU", LevelBasic, "APIs", 2,
			"Introduction to RESTful APIs and best practices."),
		c("api-3", "API Design Best Practices", "https://www.youtube.com/watch?v=zb-WLrNCcT0", LevelIntermediate, "APIs", 3,
			"Learn how to design robust and scalable APIs."),
		c("api-4", "Postman for API Testing", "https://www.youtube.com/watch?v=4vLxWqE94l4", LevelBasic, "APIs", 2,
			"How to use Postman for testing and documenting APIs."),
		c("api-5", "API Security Fundamentals", "https://www.youtube.com/watch?v=pBASqUbZgkY", LevelAdvanced, "APIs", 4,
			"Essential security concepts for protecting your APIs."),
	}
}

func DefaultMentors() []Mentor {
	return []Mentor{
		{ID: "1", Name: "Priya Sharma", Role: "Principal PO @ FinTech Hub",
			Expertise: []string{"Stakeholder Management", "Visioning"}, Avatar: "https://i.pravatar.cc/150?u=priya"},
		{ID: "2", Name: "Arjun Mehta", Role: "Senior PM @ SaaS Collective",
			Expertise: []string{"Technical Backlogs", "Jira Mastery"}, Avatar: "https://i.pravatar.cc/150?u=arjun"},
		{ID: "3", Name: "Ananya Iyer", Role: "Product Strategy Lead",
			Expertise: []string{"Market Analysis", "Growth Hacking"}, Avatar: "https://i.pravatar.cc/150?u=ananya"},
	}
}

func DefaultQuestions() []Question {
	return []Question{
		{
			ID:           "q-1",
			Text:         "Who is accountable for ordering the Product Backlog?",
			Options:      []string{"The Scrum Master", "The Product Owner", "The Development Team", "The Stakeholders"},
			CorrectIndex: 1,
		},
		{
			ID:           "q-2",
			Text:         "Which artifact describes the next increment's commitment for a Sprint?",
			Options:      []string{"Product Vision", "Release Plan", "Sprint Backlog", "Burndown Chart"},
			CorrectIndex: 2,
		},
		{
			ID:           "q-3",
			Text:         "What does INVEST describe?",
			Options:      []string{"Qualities of a good user story", "A prioritisation matrix", "A release cadence", "A stakeholder map"},
			CorrectIndex: 0,
		},
	}
}
