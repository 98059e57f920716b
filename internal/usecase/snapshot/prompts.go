package snapshot

import "strings"

// SectionNames is the ordered catalogue of the eleven snapshot sections.
// Executive Summary is always last; it is synthesized from the other ten and
// never generated from raw transcript text.
var SectionNames = []string{
	"Customer Information",
	"Background",
	"Solution",
	"Engagement Details",
	"Results and Achievements",
	"Adoption and Usage",
	"Financial Impact",
	"Long-Term Impact",
	"Visuals",
	"Additional Commentary",
	"Executive Summary",
}

// SectionSlugs maps section names to URL-safe identifiers.
var SectionSlugs = map[string]string{
	"Customer Information":     "customer_information",
	"Background":               "background",
	"Solution":                 "solution",
	"Engagement Details":       "engagement_details",
	"Results and Achievements": "results_achievements",
	"Adoption and Usage":       "adoption_usage",
	"Financial Impact":         "financial_impact",
	"Long-Term Impact":         "long_term_impact",
	"Visuals":                  "visuals",
	"Additional Commentary":    "additional_commentary",
	"Executive Summary":        "executive_summary",
}

// SectionBySlug resolves a slug back to its section name.
func SectionBySlug(slug string) (string, bool) {
	for name, s := range SectionSlugs {
		if s == slug {
			return name, true
		}
	}
	return "", false
}

// fillTemplate substitutes {key} markers with values from vars. Markers
// with no matching key are left in place.
func fillTemplate(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// hasUnfilledVars reports whether any {key} markers remain after filling.
func hasUnfilledVars(prompt string, known []string) []string {
	var missing []string
	for _, key := range known {
		if strings.Contains(prompt, "{"+key+"}") {
			missing = append(missing, key)
		}
	}
	return missing
}

// templateVarNames are every variable any section template may reference.
var templateVarNames = []string{"transcript", "entities", "topics", "all_sections"}

const validatorSystemPrompt = `You are a quality assurance specialist reviewing technical documentation. Check for factual consistency, completeness, professional tone, and narrative flow. Identify contradictions, gaps, and opportunities for improvement. Be thorough and constructive.

Validate:
- Factual consistency across sections (dates, names, metrics)
- Completeness of required information
- Professional tone and quality
- Narrative coherence and flow
- Identify specific improvement opportunities`

const genericSectionSystemPrompt = `You are a professional business writer producing one section of a Customer Success Snapshot. Be precise and factual, clearly mark inferences, and maintain professional formatting.`

// sectionSystemPrompts holds the specialized persona for each section's
// generation call.
var sectionSystemPrompts = map[string]string{
	"Customer Information": `You are a data extraction specialist focused on customer information. Extract and structure company details, contacts, and organizational information from transcripts. Be precise with facts, clearly mark inferences, and maintain professional formatting.

Focus on extracting:
- Company name and official details
- Industry and sector
- Location information
- Primary contacts and their roles
- Organization size and structure`,

	"Background": `You are a business analyst expert at identifying core business challenges and problems. Focus on understanding the 'why' behind customer needs. Extract pain points, business impact, and triggering events. Provide context and depth.

Key areas to identify:
- Specific problems or challenges faced
- Business context and triggers
- Impact on operations, revenue, or efficiency
- Urgency and priority level
- Root causes when mentioned`,

	"Solution": `You are a solutions architect documenting technical implementations. Focus on specific products/services used, implementation processes, and technical details. Be concrete, specific, and technically accurate.

Document:
- Specific products/services implemented
- Implementation methodology and approach
- Technical specifications and configurations
- Key features and capabilities utilized
- Integration points and architecture`,

	"Engagement Details": `You are a project manager documenting engagement timelines and team dynamics. Extract dates, milestones, team members, and project phases. Organize information chronologically and highlight collaboration.

Capture:
- Project start and end dates
- Key milestones and phases
- Team members and their roles
- Engagement model (consulting, partnership, etc.)
- Post-implementation activities`,

	"Results and Achievements": `You are a metrics and outcomes specialist. Extract quantifiable results, KPIs, improvements, and customer testimonials. Prioritize hard numbers, measurable impact, and concrete evidence of success.

Focus on:
- Quantifiable improvements (percentages, time savings, cost reductions)
- Before/after comparisons
- Customer testimonials and quotes
- Success metrics and KPIs
- Immediate and downstream benefits`,

	"Adoption and Usage": `You are a change management specialist analyzing solution adoption. Focus on user engagement, adoption rates, training programs, and usage patterns. Provide insights into how well the solution was embraced.

Analyze:
- User adoption rates and timeline
- Usage statistics and engagement metrics
- Training and onboarding programs
- User feedback and satisfaction
- Adoption challenges and successes`,

	"Financial Impact": `You are a financial analyst extracting business value and ROI. Focus on cost savings, revenue impact, efficiency gains, and return on investment. Provide clear financial metrics and business justification.

Extract:
- Cost savings with specific amounts
- Revenue increases or new revenue streams
- ROI calculations and payback period
- Efficiency gains with financial impact
- Cost avoidance`,

	"Long-Term Impact": `You are a strategy consultant analyzing long-term impact. Focus on strategic benefits, competitive advantages, organizational transformation, and future opportunities. Think beyond immediate ROI to lasting value.

Identify:
- Strategic benefits and competitive advantages
- Organizational transformation and capability building
- Future plans and expansion opportunities
- Market positioning improvements
- Long-term sustainability`,

	"Visuals": `You are a data visualization specialist. Identify quantitative data, timelines, processes, and comparisons that would benefit from visual representation. Suggest specific chart types and visualization approaches.

Suggest visuals for:
- Timeline and milestone graphics
- Before/after comparison charts
- Metrics dashboards and KPI visualizations
- Process flow diagrams
- Infographic elements`,

	"Additional Commentary": `You are a business storyteller capturing unique aspects and insights. Look for innovative approaches, lessons learned, partnership dynamics, and contextual details that enrich the overall narrative.

Highlight:
- Unique circumstances or approaches
- Lessons learned and key insights
- Partnership quality and collaboration
- Industry context and trends
- Innovation and differentiation`,

	"Executive Summary": `You are a senior executive communications expert. Synthesize complex information into compelling, concise overviews highlighting strategic value. Write for C-level audiences with focus on business outcomes and ROI. Be persuasive and results-oriented.

Create summaries that:
- Lead with most impressive results
- Focus on business value over technical details
- Use clear, executive-friendly language
- Include key metrics and outcomes
- Tell a compelling success story
- Are scannable and well-structured (300-400 words)`,
}

// sectionTemplates holds the prompt template for each section. Templates use
// {transcript}, {entities}, {topics}, and {all_sections} markers.
var sectionTemplates = map[string]string{
	"Customer Information": `Based on the following meeting transcript, extract detailed customer information:

TRANSCRIPT:
{transcript}

IDENTIFIED ENTITIES: {entities}

Extract and structure the following information:
• Company Name:
• Industry:
• Location:
• Primary Contact:
• Position:
• Contact Information:

INSTRUCTIONS:
- Be precise and factual
- If information is not explicitly stated, indicate "Not mentioned in transcript"
- You may make reasonable inferences if clearly labeled as [INFERRED]
- Provide complete contact details if available
- Note any ambiguities or uncertainties

OUTPUT FORMAT: Structured bullet points as shown above
`,

	"Background": `From this meeting transcript, identify and describe the customer's initial problems or challenges that led them to seek a solution:

TRANSCRIPT:
{transcript}

Extract and structure the following:

• Problem / Challenge Information:
  [Describe the specific problem/challenge the customer faced]

• Business Context:
  [When did this problem begin? What triggered the need for a solution?]

• Impact on Business:
  [How was this problem affecting operations, revenue, efficiency, or other metrics?]

• Urgency/Priority:
  [How critical was solving this problem?]

INSTRUCTIONS:
- Focus on pain points explicitly mentioned
- Distinguish between stated problems and implied challenges
- Include quotes when they effectively illustrate the problem
- Note if multiple problems or a complex challenge is described

OUTPUT FORMAT: Structured narrative with bullet points
`,

	"Solution": `Based on this transcript, describe the solution that was implemented or proposed:

TRANSCRIPT:
{transcript}

Extract and structure:

• Product/Service Used:
  [Mention the specific product/service]

• Implementation Process:
  [Describe how the solution was implemented or planned to be implemented]

• Technical Details:
  [Any technical specifications, integrations, or configurations mentioned]

• Key Features Utilized:
  [Which features or capabilities were most relevant]

INSTRUCTIONS:
- Be specific about products, versions, or service tiers mentioned
- Describe the implementation approach and methodology
- Note any customizations or special configurations
- Include technical details that demonstrate sophistication

OUTPUT FORMAT: Structured narrative with technical detail
`,

	"Engagement Details": `Extract engagement and implementation details with timeline:

TRANSCRIPT:
{transcript}

Structure the following:

• Start Date: [Project start date]
• Key Milestones: [List important milestones with dates if available]
• Completion Date: [Completion date or expected completion]
• Post-Implementation Review: [Any reviews or assessments mentioned]
• Engagement Team: [Groups involved - CSM/CSE/Pre-Sales/R&D/Partners]
• Engagement Overview: [Describe team involvement beyond PS consultants]

INSTRUCTIONS:
- Extract all date references and timeline markers
- List milestones in chronological order
- Identify all team members and their roles
- Note phase-based approaches or iterative development

OUTPUT FORMAT: Timeline with structured sections
`,

	"Results and Achievements": `Identify key achievements and quantifiable improvements:

TRANSCRIPT:
{transcript}

Extract:

• Key Achievements:
  [List main benefits/results achieved with metrics if available]

• Quantifiable Improvements:
  [List measurable improvements - percentages, time savings, cost reductions]

• Testimonial/Quote:
  [Include direct quotes that highlight positive experience]

• Success Metrics:
  [KPIs or metrics used to measure success]

INSTRUCTIONS:
- Prioritize hard numbers and quantifiable metrics
- Look for before/after comparisons
- Extract meaningful customer quotes
- Note both immediate and downstream benefits

OUTPUT FORMAT: Metrics-focused with supporting narrative
`,

	"Adoption and Usage": `Extract adoption and usage information:

TRANSCRIPT:
{transcript}

Structure:

• User Adoption Rate:
  [Detail the rate of adoption among customer's staff]

• Usage Metrics:
  [Specific usage statistics post-implementation]

• User Feedback:
  [How users responded to the solution]

• Training & Onboarding:
  [Any training programs or onboarding processes mentioned]

INSTRUCTIONS:
- Look for user counts, frequency of use, engagement metrics
- Note adoption timeline (immediate vs. gradual)
- Include user satisfaction indicators
- Describe rollout approach

OUTPUT FORMAT: Usage-focused with adoption trajectory
`,

	"Financial Impact": `Identify financial benefits and business value:

TRANSCRIPT:
{transcript}

Extract:

• Cost Savings:
  [Detail any cost savings achieved with amounts if available]

• Revenue Increase:
  [Any revenue increases attributed to the solution]

• ROI:
  [Return on investment calculations or estimates]

• Efficiency Gains:
  [Cost avoidance or efficiency improvements with financial impact]

INSTRUCTIONS:
- Prioritize concrete financial figures
- Look for cost-benefit analyses
- Note both direct and indirect financial impacts
- Include payback period if mentioned

OUTPUT FORMAT: Financial metrics with business context
`,

	"Long-Term Impact": `Extract long-term strategic impact:

TRANSCRIPT:
{transcript}

Structure:

• Strategic Benefits:
  [Long-term benefits beyond immediate ROI]

• Future Plans:
  [Future projects or expansions discussed]

• Competitive Advantage:
  [How solution improves competitive position]

• Organizational Change:
  [Cultural or operational transformations enabled]

INSTRUCTIONS:
- Focus on strategic, not just tactical benefits
- Look for planned expansions or future phases
- Note capability building and organizational learning
- Identify transformational outcomes

OUTPUT FORMAT: Strategic narrative with forward-looking view
`,

	"Visuals": `Identify data and information suitable for visual representation:

TRANSCRIPT:
{transcript}

Suggest visual elements:

• Implementation Timeline Graphic:
  [Describe timeline that could be visualized]

• Before and After Comparisons:
  [Data suitable for comparison charts]

• Metrics Dashboard:
  [Key metrics that could be visualized]

• Process Diagrams:
  [Workflows or architectures to diagram]

• Customer Logo Placement:
  [Note if company name/logo should be featured]

INSTRUCTIONS:
- Identify quantitative data suitable for charts/graphs
- Suggest timeline visualizations if dates are available
- Note opportunities for process flow diagrams
- Recommend infographic elements

OUTPUT FORMAT: Descriptions of visual elements to create
`,

	"Additional Commentary": `Identify important details not covered in standard sections:

TRANSCRIPT:
{transcript}

Extract:

• Unique Circumstances:
  [Special conditions or unique aspects of engagement]

• Lessons Learned:
  [Key insights or takeaways from the project]

• Partnership Dynamics:
  [Collaborative aspects worth highlighting]

• Industry Context:
  [Relevant industry trends or challenges]

• Innovation/Differentiation:
  [Innovative approaches or unique implementations]

INSTRUCTIONS:
- Include context that enriches the overall story
- Note creative problem-solving or innovative approaches
- Highlight partnership quality and collaboration
- Add industry-specific insights

OUTPUT FORMAT: Narrative commentary with supporting details
`,

	"Executive Summary": `Create a compelling executive summary based on all completed sections:

SECTION CONTENT:
{all_sections}

Synthesize into executive summary with:

• Opening Statement:
  [Compelling one-sentence overview]

• Customer & Challenge:
  [Who the customer is and what problem they faced]

• Solution Deployed:
  [What was implemented]

• Key Results:
  [3-5 most impressive outcomes with metrics]

• Strategic Value:
  [Long-term business impact]

• Conclusion:
  [Forward-looking statement]

INSTRUCTIONS:
- Keep concise (300-400 words maximum)
- Lead with most impressive results
- Make it scannable with clear structure
- Focus on business value, not technical details
- Write for C-level audience

OUTPUT FORMAT: Polished executive summary
`,
}
