// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package personas

// =============================================================================
// Domain Keyword Table
// =============================================================================
//
// The table is bilingual (English + Korean) so research topics in either
// language classify natively. Encounter order is significant: the
// classifier keeps it as the tie-break for equal match counts, so more
// general domains (technology, business) come first.

// domainKeywords maps a domain tag to its matching keywords.
type domainKeywords struct {
	Domain   string
	Keywords []string
}

var keywordTable = []domainKeywords{
	{"technology", []string{
		"AI", "artificial intelligence", "인공지능", "machine learning", "머신러닝",
		"deep learning", "딥러닝", "semiconductor", "반도체", "chip", "칩",
		"GPU", "TPU", "software", "소프트웨어", "hardware", "하드웨어",
		"cloud", "클라우드", "SaaS", "API", "open source", "오픈소스", "LLM",
		"blockchain", "블록체인", "quantum computing", "양자컴퓨팅", "robot", "로봇",
		"autonomous driving", "자율주행", "IoT", "5G", "6G",
		"cybersecurity", "사이버보안", "data center", "데이터센터",
		"edge computing", "엣지컴퓨팅", "metaverse", "메타버스",
	}},
	{"engineering", []string{
		"fabrication", "공정", "design", "설계", "manufacturing", "제조",
		"architecture", "아키텍처", "protocol", "프로토콜", "infrastructure", "인프라",
		"nanometer", "나노미터", "nm", "EUV", "foundry", "파운드리",
		"packaging", "패키징",
	}},
	{"business", []string{
		"market", "시장", "revenue", "매출", "profit", "수익", "strategy", "전략",
		"competition", "경쟁", "customer", "고객", "marketing", "마케팅",
		"brand", "브랜드", "business model", "비즈니스모델", "사업", "기업",
		"management", "경영", "조직", "merger", "인수합병", "M&A",
	}},
	{"finance", []string{
		"investment", "투자", "stock", "주식", "fund", "펀드", "VC", "IPO",
		"valuation", "밸류에이션", "PER", "PBR", "ROI", "ROE",
		"financial", "재무", "accounting", "회계", "interest rate", "금리",
		"exchange rate", "환율", "inflation", "인플레이션",
	}},
	{"investment", []string{
		"portfolio", "포트폴리오", "asset allocation", "자산배분",
		"rebalancing", "리밸런싱", "yield", "수익률", "dividend", "배당",
		"ETF", "bond", "채권", "commodity", "원자재", "real estate", "부동산",
	}},
	{"startup", []string{
		"startup", "스타트업", "founding", "창업", "PMF", "GTM", "pivot", "피벗",
		"MVP", "series A", "시리즈A", "unicorn", "유니콘",
		"accelerator", "엑셀러레이터", "venture", "벤처", "lean startup", "린스타트업",
	}},
	{"academic", []string{
		"paper", "논문", "연구", "학술", "conference", "학회", "journal", "저널",
		"peer review", "피어리뷰", "citation", "인용", "hypothesis", "가설",
		"experiment", "실험", "theory", "이론", "framework", "프레임워크",
	}},
	{"science", []string{
		"science", "과학", "physics", "물리", "chemistry", "화학",
		"biology", "생물", "mathematics", "수학", "statistics", "통계",
		"discovery", "발견", "법칙", "원리", "proof", "증명",
	}},
	{"research", []string{
		"R&D", "연구개발", "basic research", "기초연구", "applied research",
		"응용연구", "연구소", "랩",
	}},
	{"medical", []string{
		"medical", "의료", "clinical", "임상", "treatment", "치료",
		"diagnosis", "진단", "drug", "약물", "FDA", "신약", "patient", "환자",
		"disease", "질병", "bio", "바이오", "genome", "게놈", "gene", "유전자",
		"vaccine", "백신",
	}},
	{"healthcare", []string{
		"health", "건강", "healthcare", "헬스케어", "digital health", "디지털헬스",
		"telemedicine", "원격의료", "medical device", "의료기기",
	}},
	{"pharmaceutical", []string{
		"pharmaceutical", "제약", "clinical trial", "임상시험", "CRO", "CMO",
		"GMP", "drug development", "신약개발",
	}},
	{"policy", []string{
		"policy", "정책", "regulation", "규제", "법률", "legislation", "법안",
		"입법", "행정", "government", "정부", "public sector", "공공",
		"governance", "거버넌스", "compliance", "컴플라이언스",
	}},
	{"legal", []string{
		"법", "contract", "계약", "lawsuit", "소송", "patent", "특허",
		"intellectual property", "지적재산", "IP", "license", "라이선스",
	}},
	{"regulation", []string{
		"permit", "인허가", "certification", "인증", "standard", "표준",
		"guideline", "가이드라인", "supervision", "감독", "audit", "감사",
	}},
	{"education", []string{
		"education", "교육", "learning", "학습", "curriculum", "커리큘럼",
		"EdTech", "온라인교육", "MOOC",
	}},
	{"social", []string{
		"society", "사회", "culture", "문화", "population", "인구",
		"labor", "노동", "employment", "고용", "inequality", "불평등",
		"environment", "환경", "ESG",
	}},
	{"geopolitics", []string{
		"geopolitics", "지정학", "diplomacy", "외교", "security", "안보",
		"trade war", "무역전쟁", "sanction", "제재", "alliance", "동맹",
		"hegemony", "패권", "supply chain", "공급망", "decoupling", "디커플링",
		"reshoring", "리쇼어링", "friendshoring", "프렌드쇼어링",
	}},
	{"management", []string{
		"leadership", "리더십", "조직문화", "HR", "인사",
		"performance management", "성과관리", "OKR", "KPI",
	}},
	{"software", []string{
		"programming", "프로그래밍", "개발", "coding", "코딩", "DevOps", "CI/CD",
		"microservice", "마이크로서비스", "container", "컨테이너",
		"kubernetes", "쿠버네티스", "frontend", "프론트엔드", "backend", "백엔드",
	}},
	{"hardware", []string{
		"하드웨어", "ASIC", "FPGA", "PCB", "embedded", "임베디드", "sensor", "센서",
	}},
	{"government", []string{
		"정부", "공공기관", "defense", "국방", "procurement", "조달",
	}},
}

// Domains returns the domain tags in table encounter order.
func Domains() []string {
	out := make([]string, 0, len(keywordTable))
	for _, entry := range keywordTable {
		out = append(out, entry.Domain)
	}
	return out
}
