package prompt

// researchStrategies holds the multi-phase research checklist per strategy
// id. Unknown ids fall back to comprehensive_research.
var researchStrategies = map[string]string{
	"multi_service_comparison": `
PHASE 1 - SERVICE IDENTIFICATION:
1. Identify services being compared
2. Search documentation for each service

PHASE 2 - COMPARATIVE RESEARCH:
3. Read feature comparison guides
4. Find use case documentation
5. Research pricing and performance

PHASE 3 - COMPARISON SYNTHESIS:
6. Create comparison matrix
7. Identify trade-offs
8. Provide recommendations
`,
	"step_by_step_guide": `
PHASE 1 - REQUIREMENTS ANALYSIS:
1. Understand the goal and prerequisites
2. Identify required AWS services

PHASE 2 - DOCUMENTATION RESEARCH:
3. Find official tutorials and guides
4. Review best practices documentation
5. Check code examples and samples

PHASE 3 - IMPLEMENTATION GUIDE:
6. Create step-by-step instructions
7. Include code examples where applicable
8. Add troubleshooting tips
`,
	"comprehensive_research": `
PHASE 1 - BROAD RESEARCH:
1. Search for comprehensive documentation
2. Find multiple authoritative sources
3. Review architecture and design docs

PHASE 2 - DEEP DIVE:
4. Read technical deep-dive articles
5. Review AWS Well-Architected Framework
6. Check related services and integrations

PHASE 3 - SYNTHESIS:
7. Combine insights from multiple sources
8. Provide comprehensive explanation
9. Include examples and use cases
`,
	"problem_solving": `
PHASE 1 - PROBLEM IDENTIFICATION:
1. Understand the error or issue
2. Identify affected AWS services

PHASE 2 - TROUBLESHOOTING RESEARCH:
3. Search AWS troubleshooting guides
4. Find common issues and solutions
5. Review error documentation

PHASE 3 - SOLUTION PROVIDED:
6. Provide step-by-step solution
7. Include prevention strategies
8. Reference official documentation
`,
	"architectural_research": `
PHASE 1 - ARCHITECTURE ANALYSIS:
1. Understand requirements and constraints
2. Identify relevant architectural patterns

PHASE 2 - BEST PRACTICES RESEARCH:
3. Review AWS Well-Architected Framework
4. Find architecture patterns documentation
5. Research service-specific best practices

PHASE 3 - RECOMMENDATIONS:
6. Provide architectural recommendations
7. Explain trade-offs and considerations
8. Include reference architectures
`,
	"pricing_research": `
PHASE 1 - SERVICE IDENTIFICATION:
1. Identify AWS services involved
2. Understand usage patterns

PHASE 2 - PRICING RESEARCH:
3. Find pricing documentation
4. Review cost calculators
5. Research cost optimization strategies

PHASE 3 - COST ANALYSIS:
6. Provide cost breakdown
7. Include optimization recommendations
8. Reference pricing examples
`,
	"integration_research": `
PHASE 1 - INTEGRATION ANALYSIS:
1. Identify services to integrate
2. Understand integration requirements

PHASE 2 - INTEGRATION RESEARCH:
3. Find integration documentation
4. Review integration patterns
5. Check compatibility and requirements

PHASE 3 - INTEGRATION GUIDE:
6. Provide integration steps
7. Include configuration examples
8. Add troubleshooting tips
`,
}
