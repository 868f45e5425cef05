package records

import (
	"context"

	"swcommons/internal/store"
	"swcommons/pkg/models"
)

func ptr(v string) *string { return models.StringPtr(v) }

func seedCountries() []models.Record {
	return []models.Record{
		&models.Country{Name: "United Kingdom", Region: "Europe", Regulators: []models.Regulator{
			{Name: "Social Work England", URL: ptr("https://www.socialworkengland.org.uk")},
			{Name: "SSSC (Scotland)", URL: ptr("https://www.sssc.uk.com")},
			{Name: "Social Care Wales", URL: ptr("https://socialcare.wales")},
			{Name: "NISCC (Northern Ireland)", URL: ptr("https://niscc.info")},
		}},
		&models.Country{Name: "Ireland", Region: "Europe", Regulators: []models.Regulator{
			{Name: "CORU", URL: ptr("https://www.coru.ie")},
		}},
		&models.Country{Name: "Germany", Region: "Europe", Regulators: []models.Regulator{
			{Name: "DBSH", URL: ptr("https://www.dbsh.de")},
		}},
		&models.Country{Name: "United States", Region: "Americas", Regulators: []models.Regulator{
			{Name: "Association of Social Work Boards (ASWB)", URL: ptr("https://www.aswb.org")},
		}},
		&models.Country{Name: "Canada", Region: "Americas", Regulators: []models.Regulator{
			{Name: "Canadian Association of Social Workers (CASW)", URL: ptr("https://www.casw-acts.ca")},
		}},
		&models.Country{Name: "Australia", Region: "Oceania", Regulators: []models.Regulator{
			{Name: "Australian Association of Social Workers (AASW)", URL: ptr("https://www.aasw.asn.au")},
		}},
		&models.Country{Name: "South Africa", Region: "Africa", Regulators: []models.Regulator{
			{Name: "SACSSP", URL: ptr("https://www.sacssp.co.za")},
		}},
	}
}

func seedQualifications() []models.Record {
	return []models.Record{
		&models.Qualification{Level: "Certificate / Access Course", Duration: "6-12 Months",
			Description: "Foundational understanding of social care and human behavior.",
			NextSteps:   "Leads to Diploma or entry-level care roles."},
		&models.Qualification{Level: "Diploma in Social Work", Duration: "2 Years",
			Description: "Technical training for auxiliary social workers or social work assistants.",
			NextSteps:   "Eligible for certain paraprofessional roles or university bridge."},
		&models.Qualification{Level: "Bachelor of Social Work (BSW)", Duration: "3-4 Years",
			Description: "The standard entry-level qualification for professional registration.",
			NextSteps:   "Eligible for professional licensure in most countries."},
		&models.Qualification{Level: "Master of Social Work (MSW)", Duration: "2 Years",
			Description: "Advanced clinical practice and specialized training.",
			NextSteps:   "Required for private practice or specialized clinical roles."},
		&models.Qualification{Level: "PhD / DSW", Duration: "3-5 Years",
			Description: "Research-focused or high-level clinical leadership qualification.",
			NextSteps:   "University lecturing, policy research, or executive leadership."},
	}
}

// Blog posts and forum posts are listed newest first, so the oldest is seeded first.
func seedBlogPosts() []models.Record {
	return []models.Record{
		&models.BlogPost{Title: "The Future of Social Work: AI and Ethics", Date: "2024-03-10",
			Excerpt: "Can artificial intelligence help with case management?",
			Content: "We discuss the ethical implications of using AI for documentation and risk assessment in social work settings."},
		&models.BlogPost{Title: "Navigating Child Protection Legislation", Date: "2024-04-20",
			Excerpt: "A brief guide to recent changes in international child welfare laws...",
			Content: "Legislation is constantly evolving. Staying updated on the Children's Act and its counterparts in other nations is crucial for compliant practice."},
		&models.BlogPost{Title: "Self-Care in High-Stress Environments", Date: "2024-05-15",
			Excerpt: "How to maintain your mental health while working on the frontline...",
			Content: "Social work is inherently stressful. This post explores the importance of **professional boundaries** and mindfulness practices to prevent burnout."},
	}
}

func seedEvents() []models.Record {
	return []models.Record{
		&models.Event{Title: "Trauma-Informed Care Workshop", Date: "June 15, 2024", Location: "Online (Zoom)", Type: "webinar",
			Description: "Learn the principles of trauma-informed practice."},
		&models.Event{Title: "Annual Social Work Conference", Date: "July 02, 2024", Location: "New York, NY", Type: "in-person",
			Description: "Networking and keynote speakers on future trends."},
		&models.Event{Title: "Ethics in the Digital Age", Date: "July 20, 2024", Location: "Online (Teams)", Type: "webinar",
			Description: "Webinar discussing AI, social media, and boundaries."},
	}
}

func seedVolunteering() []models.Record {
	return []models.Record{
		&models.VolunteerOpportunity{Title: "Crisis Hotline Operator", Organization: "General", Commitment: "4 hrs/week", Location: "Remote",
			Description: "Provide active listening and support to callers in distress. Training provided."},
		&models.VolunteerOpportunity{Title: "Youth Mentor", Organization: "Local Community Center", Commitment: "2 hrs/week", Location: "Local",
			Description: "Mentor at-risk youth through after-school programs and activities."},
		&models.VolunteerOpportunity{Title: "Food Bank Coordinator Assistant", Organization: "Downtown Shelter", Commitment: "Weekends", Location: "Local",
			Description: "Assist in organizing and distributing food parcels to families in need."},
	}
}

func seedInternships() []models.Record {
	return []models.Record{
		&models.Internship{Title: "Summer Clinical Rotation", Organization: "City Hospital", Duration: "June - August", Focus: "Medical Social Work",
			Description: ptr("Medical Social Work focus")},
		&models.Internship{Title: "Child Welfare Advocacy Intern", Organization: "Family Services", Duration: "Fall Semester", Focus: "Policy and Advocacy",
			Description: ptr("Policy and Advocacy focus")},
		&models.Internship{Title: "Community Outreach Intern", Organization: "Urban Alliance", Duration: "Spring Semester", Focus: "Macro Social Work",
			Description: ptr("Macro Social Work focus")},
		&models.Internship{Title: "School Social Work Placement", Organization: "District 9", Duration: "Full Academic Year", Focus: "Educational",
			Description: ptr("Educational setting")},
	}
}

func seedSalaries() []models.Record {
	return []models.Record{
		&models.SalaryGuide{Role: "Case Manager", ExperienceLevel: "Entry Level", Range: "$35,000 - $45,000"},
		&models.SalaryGuide{Role: "School Social Worker", ExperienceLevel: "2-5 Years", Range: "$45,000 - $65,000"},
		&models.SalaryGuide{Role: "Medical Social Worker", ExperienceLevel: "Mid-Level", Range: "$55,000 - $75,000"},
		&models.SalaryGuide{Role: "Clinical Therapist (LCSW)", ExperienceLevel: "Licensed", Range: "$60,000 - $90,000+"},
		&models.SalaryGuide{Role: "Director of Social Services", ExperienceLevel: "Senior (10+ Yrs)", Range: "$80,000 - $120,000+"},
	}
}

func seedReadings() []models.Record {
	return []models.Record{
		&models.Reading{Title: "The Body Keeps the Score", Author: "Bessel van der Kolk", Year: "2014",
			Description: "Essential reading for understanding trauma and its impact on the body and mind."},
		&models.Reading{Title: "Daring Greatly", Author: "Brené Brown", Year: "2012",
			Description: "Explores the power of vulnerability."},
		&models.Reading{Title: "Social Work Treatment", Author: "Francis J. Turner", Year: "2011",
			Description: "Overview of major theoretical approaches."},
	}
}

func seedForumPosts() []models.Record {
	return []models.Record{
		&models.ForumPost{Category: "Case Consultation", Title: "Complex Teen Case", Author: "ClinicalLead", PostedAt: "2024-05-19",
			Content: "Looking for advice on a difficult situation..."},
		&models.ForumPost{Category: "General Discussion", Title: "New Legislation in NY", Author: "SW_Jane", PostedAt: "2024-05-20",
			Content: "Has anyone reviewed the recent changes?"},
		&models.ForumPost{Category: "Student Lounge", Title: "Studying for ASWB", Author: "GradStudent24", PostedAt: "2024-05-20",
			Content: "Anyone want to join a study group?"},
	}
}

func seedEthics() []models.Record {
	return []models.Record{
		&models.EthicsGuideline{Title: "IFSW Global Ethics", Category: ptr("Global Standards"),
			Content: "The International Federation of Social Workers (IFSW) sets the baseline for human rights and social justice globally. All practitioners are mandated to adhere to the core values of integrity, service, and dignity of the person."},
		&models.EthicsGuideline{Title: "Confidentiality & Data Integrity", Category: ptr("Practice"),
			Content: "Protecting client data is paramount in a digital age. Practitioners must navigate the complex ethical balance between individual privacy rights and the legal duty to protect vulnerable individuals from harm (safeguarding)."},
		&models.EthicsGuideline{Title: "Professional Boundaries", Category: ptr("Practice"),
			Content: "Maintaining professional distance while providing empathetic, person-centered support. Dual relationships should be avoided rigorously to prevent conflicts of interest and power imbalances."},
	}
}

func seedTheories() []models.Record {
	return []models.Record{
		&models.Theory{Name: "Systems Theory",
			Description: "Understanding individuals through the complex, interconnected systems of family, community, and broader society."},
		&models.Theory{Name: "Strengths-Based Approach",
			Description: "Systematically focusing on the inherent resources, resilience, and capabilities of the client rather than just pathology or deficits."},
		&models.Theory{Name: "Psychosocial Theory",
			Description: "Examining how psychological internal factors and the social external environment interact to influence mental health and overall wellbeing."},
		&models.Theory{Name: "Social Constructionism",
			Description: "The framework suggesting that individuals and groups develop knowledge of the world in a specific social and historical context."},
	}
}

func seedLicensure() []models.Record {
	return []models.Record{
		&models.LicensureInfo{Category: "Exam Categories", Type: "list",
			Content: "Bachelors: Basic generalist practice.\nMasters: Master's level generalist practice.\nAdvanced Generalist: Non-clinical advanced practice.\nClinical: Advanced clinical practice."},
		&models.LicensureInfo{Category: "Study Tips", Type: "paragraph",
			Content: "Success on the ASWB exam requires understanding the 'ideal' social work answer. Always prioritize client safety, acknowledge feelings, and start where the client is.\nUse the acronym FAREAFI (Feelings, Assess, Refer, Educate, Advocate, Facilitate, Intervene) for first/next questions."},
		&models.LicensureInfo{Category: "Important Notice", Type: "notice",
			Content: "Exam requirements vary by state and jurisdiction. Always verify with your local social work board before registering."},
	}
}

func seedResearch() []models.Record {
	return []models.Record{
		&models.Research{Title: "The Impact of Social Isolation on Elderly Populations Post-Pandemic", Author: "Dr. Sarah Mitchell", Year: "2023", Type: "Research Paper",
			Description: "A comprehensive study examining the long-term psychological effects of isolation on urban elderly residents."},
		&models.Research{Title: "Sustainable Community Development in Sub-Saharan Africa", Author: "James Okoro", Year: "2022", Type: "Dissertation",
			Description: "Exploring indigenous frameworks for social welfare and community-led infrastructure projects."},
	}
}

func seedSocialWorkTypes() []models.Record {
	return []models.Record{
		&models.SocialWorkType{Title: "Clinical Social Worker",
			Description:       "Diagnosing and treating mental, behavioral, and emotional issues. Often provides individual or group therapy.",
			TypicalWorkplaces: "Private Practice, Community Health Centers, Hospitals"},
		&models.SocialWorkType{Title: "Child and Family Social Worker",
			Description:       "Protecting vulnerable children and helping families in need of assistance. Navigating foster care, adoption, and family court.",
			TypicalWorkplaces: "State Agencies, Non-Profits, Schools"},
		&models.SocialWorkType{Title: "Medical Social Worker",
			Description:       "Assisting patients and families in coping with the emotional and social impacts of illness or disability.",
			TypicalWorkplaces: "Hospitals, Hospice Care, Rehabilitation Centers"},
		&models.SocialWorkType{Title: "School Social Worker",
			Description:       "Working with teachers, parents, and school administrators to help students overcome barriers to learning.",
			TypicalWorkplaces: "Primary and Secondary Schools, Educational Boards"},
	}
}

// SeedData is the starter content, keyed by collection
func SeedData() map[models.Collection][]models.Record {
	return map[models.Collection][]models.Record{
		models.Countries:              seedCountries(),
		models.Qualifications:         seedQualifications(),
		models.BlogPosts:              seedBlogPosts(),
		models.Events:                 seedEvents(),
		models.VolunteerOpportunities: seedVolunteering(),
		models.Internships:            seedInternships(),
		models.SalaryGuides:           seedSalaries(),
		models.Readings:               seedReadings(),
		models.ForumPosts:             seedForumPosts(),
		models.EthicsGuidelines:       seedEthics(),
		models.Theories:               seedTheories(),
		models.LicensureInfos:         seedLicensure(),
		models.ResearchPapers:         seedResearch(),
		models.SocialWorkTypes:        seedSocialWorkTypes(),
	}
}

// Seed fills every empty collection with starter content and returns the
// number of records inserted. Collections that already hold records are
// left untouched.
func (svc *Service) Seed(ctx context.Context) (int, error) {
	data := SeedData()
	inserted := 0
	for _, c := range models.AllCollections {
		recs, ok := data[c]
		if !ok {
			continue
		}
		existing, err := svc.gateway.QueryAll(ctx, c, store.OrderInsertion)
		if err != nil {
			return inserted, svc.unknown("seed "+string(c), err)
		}
		if len(existing) > 0 {
			continue
		}
		for _, rec := range recs {
			if _, err := svc.create(ctx, rec); err != nil {
				return inserted, err
			}
			inserted++
		}
	}
	svc.logger.Info("Seed complete", map[string]interface{}{"inserted": inserted})
	return inserted, nil
}
